package backoff

import (
	"context"
	"math"
	"math/rand"
	"time"
)

type BackoffStrategy interface {
	GetBackoffDuration(count int, start time.Duration) time.Duration
}

// Backoff sleeps for growing durations between attempts, capped at limit
type Backoff struct {
	LastDuration time.Duration
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
	strategy     BackoffStrategy
}

func NewBackoff(strategy BackoffStrategy, start time.Duration, limit time.Duration) *Backoff {
	backoff := Backoff{strategy: strategy, start: start, limit: limit}
	backoff.Reset()
	return &backoff
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastDuration = 0
	b.NextDuration = b.getNextDuration()
}

// Backoff waits NextDuration, or returns ctx.Err() when ctx ends first
func (b *Backoff) Backoff(ctx context.Context) error {
	timer := time.NewTimer(b.NextDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	b.count++
	b.LastDuration = b.NextDuration
	b.NextDuration = b.getNextDuration()
	return nil
}

func (b *Backoff) getNextDuration() time.Duration {
	backoff := b.strategy.GetBackoffDuration(b.count, b.start)
	if b.limit > 0 && backoff > b.limit {
		backoff = b.limit
	}
	return backoff
}

type exponential struct{}

func (exponential) GetBackoffDuration(count int, start time.Duration) time.Duration {
	return time.Duration(math.Pow(2, float64(count))) * start
}

// NewExponential doubles the wait after each attempt
func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(exponential{}, start, limit)
}

type jitter struct {
	BackoffStrategy
	rnd *rand.Rand
}

func (j jitter) GetBackoffDuration(count int, start time.Duration) time.Duration {
	d := j.BackoffStrategy.GetBackoffDuration(count, start)
	return d + time.Duration(j.rnd.Int63n(int64(start)+1))
}

// NewJitteredExponential adds up to start of random wait on top of the
// exponential one, so restarted pods do not dial in lockstep
func NewJitteredExponential(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(jitter{exponential{}, rand.New(rand.NewSource(time.Now().UnixNano()))}, start, limit)
}
