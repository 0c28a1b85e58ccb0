package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFitSingleTaxon reproduces spec.md §8 "Single-taxon group" edge
// case: β̂ = y1, variance = v1.
func TestFitSingleTaxon(t *testing.T) {
	res, err := Fit([]float64{0.7}, []float64{0.3}, nil, 1e-6, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.7, res.Beta)
	assert.Equal(t, 0.3, res.BetaVar)
	assert.Equal(t, 0.0, res.Tau2)
}

// TestFitIdentityVCVMatchesIndependentMeanAnalysis reproduces spec.md
// §8 scenario 5: y=(1.0, 1.2, 0.8), v=(0.25,0.25,0.25), V=I converges
// to τ²≈0 and β̂≈mean(y)=1.0.
func TestFitIdentityVCVMatchesIndependentMeanAnalysis(t *testing.T) {
	vcv, err := NewVCV([]string{"a", "b", "c"}, [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)
	sub, err := vcv.Submatrix([]string{"a", "b", "c"})
	require.NoError(t, err)

	res, err := Fit([]float64{1.0, 1.2, 0.8}, []float64{0.25, 0.25, 0.25}, sub, 1e-6, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Beta, 1e-6)
	assert.InDelta(t, 0.0, res.Tau2, 1e-3)
}

func TestVCVRejectsAsymmetricMatrix(t *testing.T) {
	_, err := NewVCV([]string{"a", "b"}, [][]float64{
		{1, 0.5},
		{0.1, 1},
	})
	assert.Error(t, err)
}

func TestPermutationPValueBounds(t *testing.T) {
	vcv, err := NewVCV([]string{"a", "b", "c"}, [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)
	sub, err := vcv.Submatrix([]string{"a", "b", "c"})
	require.NoError(t, err)

	y := []float64{1.0, 1.2, 0.8}
	v := []float64{0.25, 0.25, 0.25}
	obs, err := Fit(y, v, sub, 1e-6, 1000)
	require.NoError(t, err)

	seed := SeedFor("mammalia", "GO:0000001")
	p, err := PermutationPValue(obs, y, v, sub, seed, PermuteOptions{Permutations: 99, Tolerance: 1e-6, MaxIter: 1000, Blocks: 4})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 1.0/100.0)
	assert.LessOrEqual(t, p, 1.0)
}
