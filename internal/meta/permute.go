package meta

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
	"github.com/sourcegraph/conc/pool"

	"github.com/go-taxago/taxago/internal/xerrors"
)

// PermuteOptions configures a permutation test.
type PermuteOptions struct {
	Permutations int
	Tolerance    float64
	MaxIter      int
	Blocks       int // number of concurrent permutation blocks; 0 means sequential
}

// PermutationPValue tests the observed pooled effect obs.Beta against
// `permutations` shuffles of y across taxa, holding v and vcv fixed
// (spec.md §4.D "permute the vector y across taxa while holding V and v
// fixed"). τ² is recomputed under every permutation, the spec's stated
// default. seed is derived once per (group, term) via SeedFor so the
// result does not depend on how permutation blocks are scheduled.
func PermutationPValue(obs Result, y, v []float64, vcv *mat.SymDense, seed rand.Source, opt PermuteOptions) (float64, error) {
	if len(y) == 1 {
		return 1, nil
	}
	blocks := opt.Blocks
	if blocks <= 0 {
		blocks = 1
	}
	per := opt.Permutations / blocks
	remainder := opt.Permutations - per*blocks

	var exceed int64
	var firstErr atomic.Value

	p := pool.New().WithMaxGoroutines(blocks)
	rngs := splitStreams(seed, blocks)
	for b := 0; b < blocks; b++ {
		count := per
		if b < remainder {
			count++
		}
		rng := rand.New(rngs[b])
		p.Go(func() {
			n, err := countExceedances(obs.Beta, y, v, vcv, rng, count, opt.Tolerance, opt.MaxIter)
			if err != nil {
				firstErr.CompareAndSwap(nil, err)
				return
			}
			atomic.AddInt64(&exceed, int64(n))
		})
	}
	p.Wait()

	if e, ok := firstErr.Load().(error); ok && e != nil {
		return 0, e
	}
	return (float64(exceed) + 1) / (float64(opt.Permutations) + 1), nil
}

func countExceedances(obsBeta float64, y, v []float64, vcv *mat.SymDense, rng *rand.Rand, count int, tolerance float64, maxIter int) (int, error) {
	n := len(y)
	yPerm := make([]float64, n)
	exceed := 0
	for i := 0; i < count; i++ {
		perm := rng.Perm(n)
		for k, src := range perm {
			yPerm[k] = y[src]
		}
		res, err := Fit(yPerm, v, vcv, tolerance, maxIter)
		if err != nil {
			return 0, xerrors.New(xerrors.NumericFailure, "permutation", err)
		}
		if math.Abs(res.Beta) >= math.Abs(obsBeta) {
			exceed++
		}
	}
	return exceed, nil
}

// splitStreams derives `n` independent PCG sources from seed by mixing
// in a stream index, so concurrent blocks never share RNG state.
func splitStreams(seed rand.Source, n int) []rand.Source {
	pcg, ok := seed.(*rand.PCG)
	out := make([]rand.Source, n)
	if !ok {
		for i := range out {
			out[i] = seed
		}
		return out
	}
	base := pcg.Uint64()
	for i := range out {
		out[i] = rand.NewPCG(base, uint64(i)*0x9E3779B97F4A7C15+1)
	}
	return out
}
