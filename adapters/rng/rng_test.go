package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(t *testing.T, name string, seed int64) []float64 {
	t.Helper()
	r, err := NewSeededRNG().SeededStream(context.Background(), name, seed)
	require.NoError(t, err)
	out := make([]float64, 5)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

func TestSeededStreamDeterministic(t *testing.T) {
	assert.Equal(t, draw(t, "importance", 7), draw(t, "importance", 7))
	assert.NotEqual(t, draw(t, "importance", 7), draw(t, "metrics", 7))
	assert.NotEqual(t, draw(t, "importance", 7), draw(t, "importance", 8))
}

func TestStreamSeed(t *testing.T) {
	assert.Equal(t, int64(42), StreamSeed("", 42))
	assert.Equal(t, int64(42+5381*33+'a'), StreamSeed("a", 42))
}

func TestSeededStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSeededRNG().SeededStream(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
