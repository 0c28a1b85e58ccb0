package meta

import (
	"hash/fnv"
	"math/rand/v2"
)

// SeedFor derives a deterministic 128-bit PCG seed from (group, term),
// so a permutation block gives bit-identical results regardless of
// goroutine interleaving or which core ran it, without a global RNG
// shared (and thus serialized) across workers (spec.md §5).
func SeedFor(group, term string) rand.Source {
	h1 := fnv.New64a()
	h1.Write([]byte(group))
	h1.Write([]byte{0})
	h1.Write([]byte(term))
	seed1 := h1.Sum64()

	h2 := fnv.New64a()
	h2.Write([]byte(term))
	h2.Write([]byte{0})
	h2.Write([]byte(group))
	seed2 := h2.Sum64()

	return rand.NewPCG(seed1, seed2)
}
