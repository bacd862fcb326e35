package llmclient

import (
	"context"
	"os"
	"strconv"
	"time"
)

// rpsLimiter is a lightweight token-bucket limiter that throttles to at
// most R requests per second with an optional burst capacity. A nil
// limiter is disabled: Acquire is a no-op.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// limiterFromEnv builds a limiter from the named env vars, or returns
// nil when no rate is configured.
func limiterFromEnv(rpsVar, burstVar string) *rpsLimiter {
	var rps float64
	var burst int
	if v := os.Getenv(rpsVar); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	if v := os.Getenv(burstVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}
	return newRPSLimiter(rps, burst)
}

func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
					// bucket full; drop token
				}
			case <-l.stopCh:
				return
			}
		}
	}()
	return l
}

// Acquire blocks until a token is available or the context is canceled.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// Stop terminates the refill goroutine.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}
