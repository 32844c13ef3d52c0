package utils

import "math/rand/v2"

// Sample draws up to k values uniformly without replacement, in draw order.
// The input is not modified.
func Sample[T any](values []T, k int, rng *rand.Rand) []T {
	if k > len(values) {
		k = len(values)
	}
	if k <= 0 {
		return nil
	}
	pool := make([]T, len(values))
	copy(pool, values)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Shuffle permutes values in place.
func Shuffle[T any](values []T, rng *rand.Rand) {
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
}
