// Package retry provides capped retries with backoff for transient failures
// when talking to the remote game API.
//
// Only errors typed by chesskit/pkg/errors as network, rate limit or server
// errors are retried by default; a 404 or 403 is returned immediately so
// that account checks fail fast.
//
// Basic usage:
//
//	cfg := &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.DefaultExponentialBackoff(),
//	}
//	games, err := retry.DoWithResult(ctx, func(ctx context.Context) ([]Game, error) {
//		return fetch(ctx, url)
//	}, cfg)
package retry
