package rng

import (
	"context"
	"math/rand"
)

// SeededRNG implements RNGPort. Each named stream is derived from the base
// seed and the stream name, so two operations sharing a seed never draw the
// same sequence.
type SeededRNG struct{}

// NewSeededRNG creates the stream factory
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (r *SeededRNG) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(StreamSeed(name, seed))), nil
}

// StreamSeed mixes the stream name into the base seed.
func StreamSeed(name string, seed int64) int64 {
	if name == "" {
		return seed
	}
	return seed + int64(hashString(name))
}

// hashString is djb2 over the name's runes.
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
