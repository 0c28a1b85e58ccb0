package enrich

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-taxago/taxago/internal/ontology"
)

// TestScenario1 reproduces spec.md §8 scenario 1: N=10 background, K=3
// proteins with the term, n=2 study proteins, a=2 hits.
func TestScenario1(t *testing.T) {
	tbl := NewTable(2, 3, 2, 10)
	assert.Equal(t, Table{A: 2, B: 0, C: 1, D: 7}, tbl)

	p := Fisher.P(tbl)
	assert.InDelta(t, 3.0/45.0, p, 1e-9)

	ph := Hypergeometric.P(tbl)
	assert.InDelta(t, 3.0/45.0, ph, 1e-9)
}

// TestFisherMatchesHypergeometricNonBoundary checks the spec.md §4.C
// one-sided enrichment tail away from the edge of the table's range
// (N=20, K=10, n=10, a=7), where a two-sided Fisher formula would
// diverge from the one-sided hypergeometric sum (~0.179 vs ~0.0894).
func TestFisherMatchesHypergeometricNonBoundary(t *testing.T) {
	tbl := NewTable(7, 10, 10, 20)
	assert.Equal(t, Table{A: 7, B: 3, C: 3, D: 7}, tbl)

	want := 16526.0 / 184756.0 // Sum_{a'=7..10} Hypergeometric(20,10,10).pmf(a')
	p := Fisher.P(tbl)
	assert.InDelta(t, want, p, 1e-6)

	ph := Hypergeometric.P(tbl)
	assert.InDelta(t, want, ph, 1e-6)
	assert.Equal(t, p, ph)
}

func TestLogOddsRatioHaldane(t *testing.T) {
	tbl := Table{A: 2, B: 0, C: 1, D: 7}
	lor := tbl.LogOddsRatio()
	want := math.Log((2.5 * 7.5) / (0.5 * 1.5))
	assert.InDelta(t, want, lor, 1e-9)
}

func TestCorrectionMonotone(t *testing.T) {
	raw := []float64{0.001, 0.2, 0.03, 0.5, 0.04}
	for _, c := range []Correction{Bonferroni, BenjaminiHochberg, BenjaminiYekutieli} {
		adj := c.Adjust(raw)
		for _, p := range adj {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
	bh := BenjaminiHochberg.Adjust(raw)
	// Adjusted p-values must preserve the rank order of the raw p-values.
	order := []int{0, 2, 4, 1, 3}
	for i := 1; i < len(order); i++ {
		assert.LessOrEqual(t, bh[order[i-1]], bh[order[i]]+1e-9)
	}
}

func TestRunFiltersByMinScore(t *testing.T) {
	term1, term2 := ontology.ID(1), ontology.ID(2)
	results := Run([]Candidate{
		{Term: term1, StudyWith: 2, BackgroundWith: 3, TotalStudy: 2, TotalBackground: 10},
		{Term: term2, StudyWith: 0, BackgroundWith: 3, TotalStudy: 2, TotalBackground: 10},
	}, Options{Test: Fisher, Correction: BenjaminiHochberg, MinStudyHit: 1, MinScore: 0.2})

	assert.Len(t, results, 1)
	assert.Equal(t, term1, results[0].Term)
}
