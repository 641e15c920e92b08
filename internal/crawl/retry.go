package crawl

import (
	"context"
	"math/rand"
	"time"
)

// Policy is an explicit retry policy applied uniformly to fallible
// operations: max additional attempts plus exponential backoff with jitter.
type Policy struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // delay before attempt 1's retry
	MaxDelay   time.Duration // backoff ceiling, 0 means uncapped
}

// Delay returns the wait before the given retry attempt (1-based):
// BaseDelay × 2^(attempt−1), capped at MaxDelay, plus up to 25% jitter.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			d = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

// Do runs op, retrying failures up to MaxRetries additional times. Context
// cancellation during a backoff wait surfaces as ctx.Err(); otherwise the
// last operation error is returned.
func (p Policy) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay(attempt)):
			}
		}
		if err = op(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
