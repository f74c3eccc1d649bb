package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"chesskit/pkg/config"
)

// fakeClock advances only when something sleeps on it
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) option() Option { return WithClock(c.Now, c.Sleep) }

func TestIntervalFirstCallImmediate(t *testing.T) {
	clk := newFakeClock()
	limiter := NewInterval(time.Second, clk.option())

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if len(clk.slept) != 0 {
		t.Errorf("Expected no sleep before the first request, slept %v", clk.slept)
	}

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if len(clk.slept) != 1 || clk.slept[0] != time.Second {
		t.Errorf("Expected a single 1s pause, got %v", clk.slept)
	}
}

func TestIntervalAllow(t *testing.T) {
	clk := newFakeClock()
	limiter := NewInterval(time.Second, clk.option())

	if !limiter.Allow() {
		t.Error("Expected first request to be allowed")
	}
	if limiter.Allow() {
		t.Error("Expected immediate second request to be denied")
	}

	clk.now = clk.now.Add(time.Second)
	if !limiter.Allow() {
		t.Error("Expected request to be allowed once the interval elapsed")
	}

	limiter.Reset()
	if !limiter.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestIntervalZeroNeverBlocks(t *testing.T) {
	limiter := NewInterval(0)
	for i := 0; i < 5; i++ {
		if !limiter.Allow() {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
}

func TestIntervalWaitCancelled(t *testing.T) {
	limiter := NewInterval(time.Hour)
	limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestTokenBucket(t *testing.T) {
	clk := newFakeClock()
	tb := NewTokenBucket(5, time.Second, clk.option())

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if len(clk.slept) == 0 {
		t.Error("Expected Wait to sleep until the refill")
	}

	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}

func TestSlidingWindow(t *testing.T) {
	clk := newFakeClock()
	sw := NewSlidingWindow(3, time.Second, clk.option())

	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if sw.Allow() {
		t.Error("Expected request to be denied when limit is reached")
	}

	clk.now = clk.now.Add(time.Second + time.Millisecond)
	if !sw.Allow() {
		t.Error("Expected request to be allowed after window slides")
	}

	sw.Reset()
	if len(sw.requests) != 0 {
		t.Error("Expected requests to be cleared after reset")
	}
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		strategy string
		wantType interface{}
		wantErr  bool
	}{
		{"interval", &Interval{}, false},
		{"token_bucket", &TokenBucket{}, false},
		{"sliding_window", &SlidingWindow{}, false},
		{"leaky_bucket", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			limiter, err := New(config.RateLimitConfig{
				Strategy:          tt.strategy,
				Interval:          time.Second,
				RequestsPerMinute: 30,
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch tt.wantType.(type) {
			case *Interval:
				if _, ok := limiter.(*Interval); !ok {
					t.Errorf("Expected *Interval, got %T", limiter)
				}
			case *TokenBucket:
				if _, ok := limiter.(*TokenBucket); !ok {
					t.Errorf("Expected *TokenBucket, got %T", limiter)
				}
			case *SlidingWindow:
				if _, ok := limiter.(*SlidingWindow); !ok {
					t.Errorf("Expected *SlidingWindow, got %T", limiter)
				}
			}
		})
	}
}
