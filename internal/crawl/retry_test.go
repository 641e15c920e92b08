package crawl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyDelayGrowth(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

	tests := []struct {
		attempt int
		floor   time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		d := p.Delay(tt.attempt)
		// exponential floor plus at most 25% jitter
		assert.GreaterOrEqual(t, d, tt.floor, "attempt %d", tt.attempt)
		assert.LessOrEqual(t, d, tt.floor+tt.floor/4, "attempt %d", tt.attempt)
	}
}

func TestPolicyDelayCapped(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 3 * time.Second}

	for attempt := 3; attempt <= 10; attempt++ {
		d := p.Delay(attempt)
		assert.LessOrEqual(t, d, 3*time.Second+3*time.Second/4, "attempt %d", attempt)
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	p := Policy{MaxRetries: 2, BaseDelay: time.Millisecond}

	wantErr := errors.New("permanent")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls) // first attempt plus two retries
}

func TestDoNoRetryOnSuccess(t *testing.T) {
	p := Policy{MaxRetries: 5, BaseDelay: time.Hour}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
