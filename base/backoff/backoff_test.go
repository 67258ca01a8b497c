package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	b := NewExponential(time.Millisecond, 5*time.Millisecond)
	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond}
	for _, d := range want {
		assert.Equal(t, d, b.NextDuration)
		require.NoError(t, b.Backoff(context.Background()))
		assert.Equal(t, d, b.LastDuration)
	}

	b.Reset()
	assert.Equal(t, time.Millisecond, b.NextDuration)
	assert.Zero(t, b.LastDuration)
}

func TestJitteredExponential(t *testing.T) {
	b := NewJitteredExponential(time.Millisecond, time.Second)
	for i := 0; i < 4; i++ {
		base := time.Duration(1<<uint(i)) * time.Millisecond
		assert.GreaterOrEqual(t, b.NextDuration, base)
		assert.LessOrEqual(t, b.NextDuration, base+time.Millisecond)
		require.NoError(t, b.Backoff(context.Background()))
	}
}

func TestBackoffCanceled(t *testing.T) {
	b := NewExponential(time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, b.Backoff(ctx))
	assert.Equal(t, time.Hour, b.NextDuration)
}
