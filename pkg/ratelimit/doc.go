// Package ratelimit keeps archive downloads polite towards the remote API.
//
// Available Implementations:
//
// Interval:
//   - Fixed pause between successive requests, first request immediate
//   - Default strategy, one second between archive fetches
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//
// Sliding Window:
//   - Tracks requests within a moving time window
//
// All limiters take an optional WithClock option so tests can drive time
// without sleeping.
//
// Usage:
//
//	limiter, err := ratelimit.New(cfg.RateLimit)
//	if err != nil {
//	    return err
//	}
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
