package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chesskit/pkg/config"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow reports whether a request may proceed right now and consumes the slot if so
	Allow() bool
	// Wait blocks until a request is allowed or ctx is done
	Wait(ctx context.Context) error
	// Reset resets the rate limiter state
	Reset()
}

// Option customises a limiter
type Option func(*clock)

type clock struct {
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now, sleep: sleepContext}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithClock replaces the wall clock and the sleep function
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *clock) {
		c.now = now
		c.sleep = sleep
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// New builds the limiter selected by cfg.Strategy
func New(cfg config.RateLimitConfig, opts ...Option) (Limiter, error) {
	switch cfg.Strategy {
	case "", "interval":
		return NewInterval(cfg.Interval, opts...), nil
	case "token_bucket":
		return NewTokenBucket(cfg.RequestsPerMinute, time.Minute, opts...), nil
	case "sliding_window":
		return NewSlidingWindow(cfg.RequestsPerMinute, time.Minute, opts...), nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", cfg.Strategy)
	}
}

// Interval enforces a fixed pause between successive requests.
// The first request is never delayed.
type Interval struct {
	interval time.Duration
	last     time.Time
	clock    clock
	mu       sync.Mutex
}

// NewInterval creates a fixed-interval limiter; a zero interval never blocks
func NewInterval(interval time.Duration, opts ...Option) *Interval {
	return &Interval{interval: interval, clock: newClock(opts)}
}

// Allow checks if a request can proceed
func (l *Interval) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.reserve()
	return ok
}

// Wait blocks until the interval since the previous request has elapsed
func (l *Interval) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		remaining, ok := l.reserve()
		l.mu.Unlock()

		if ok {
			return nil
		}
		if err := l.clock.sleep(ctx, remaining); err != nil {
			return err
		}
	}
}

// reserve consumes the slot when available; otherwise it returns the time left. Caller holds mu.
func (l *Interval) reserve() (time.Duration, bool) {
	now := l.clock.now()
	if l.last.IsZero() || now.Sub(l.last) >= l.interval {
		l.last = now
		return 0, true
	}
	return l.interval - now.Sub(l.last), false
}

// Reset forgets the previous request
func (l *Interval) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.last = time.Time{}
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time
	clock        clock
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration, opts ...Option) *TokenBucket {
	c := newClock(opts)
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   c.now(),
		clock:        c,
	}
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - tb.clock.now().Sub(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill <= 0 {
			timeUntilRefill = 100 * time.Millisecond
		}
		if err := tb.clock.sleep(ctx, timeUntilRefill); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the token bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = tb.clock.now()
}

// refill tops the bucket up once a full period has elapsed
func (tb *TokenBucket) refill() {
	now := tb.clock.now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// SlidingWindow implements a sliding window rate limiter
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	clock       clock
	mu          sync.Mutex
}

// NewSlidingWindow creates a new sliding window rate limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration, opts ...Option) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
		clock:       newClock(opts),
	}
}

// Allow checks if a request can proceed
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.clock.now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}

	return false
}

// Wait blocks until a request is allowed
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for !sw.Allow() {
		sw.mu.Lock()
		timeToWait := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			timeToWait = sw.windowSize - sw.clock.now().Sub(sw.requests[0])
		}
		sw.mu.Unlock()

		if timeToWait <= 0 {
			timeToWait = time.Millisecond
		}
		if err := sw.clock.sleep(ctx, timeToWait); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all recorded requests
func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

// cleanOldRequests removes requests outside the sliding window
func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && !sw.requests[i].After(cutoff) {
		i++
	}

	if i > 0 {
		copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:len(sw.requests)-i]
	}
}
