// Package enrich builds 2x2 contingency tables from propagated counts
// and scores them with Fisher's exact test or the hypergeometric
// survival function, then applies multiple-testing correction, per
// spec.md §4.C.
package enrich

import "math"

// Table is a 2x2 contingency table per spec.md §3 ContingencyCell: a
// study proteins with the term, b study proteins without, c
// background-only proteins with the term, d background-only proteins
// without. "Background-only" is background minus study.
type Table struct {
	A, B, C, D float64
}

// NewTable builds the table for one term given its propagated counts
// (studyWith, bgWith, out of totalStudy study proteins and
// totalBackground background proteins). studyWith/bgWith may be
// non-integer when produced by the Weight propagation method.
func NewTable(studyWith, bgWith, totalStudy, totalBackground float64) Table {
	bgOnlyWith := bgWith - studyWith
	return Table{
		A: studyWith,
		B: totalStudy - studyWith,
		C: bgOnlyWith,
		D: (totalBackground - totalStudy) - bgOnlyWith,
	}
}

// haldane applies the Haldane-Anscombe correction: if any cell is zero,
// add 0.5 to all four before computing a ratio. The p-value computation
// is unaffected by this correction (spec.md §4.C).
func (t Table) haldane() Table {
	if t.A == 0 || t.B == 0 || t.C == 0 || t.D == 0 {
		return Table{t.A + 0.5, t.B + 0.5, t.C + 0.5, t.D + 0.5}
	}
	return t
}

// LogOddsRatio returns log((a*d)/(b*c)) with the Haldane-Anscombe
// correction applied when any cell is zero.
func (t Table) LogOddsRatio() float64 {
	h := t.haldane()
	return math.Log((h.A * h.D) / (h.B * h.C))
}

// LogOddsVariance returns the standard log odds ratio variance 1/a +
// 1/b + 1/c + 1/d, with the same Haldane-Anscombe correction
// LogOddsRatio applies, used as the within-study variance fed into
// internal/meta's random-effects model (spec.md §4.D).
func (t Table) LogOddsVariance() float64 {
	h := t.haldane()
	return 1/h.A + 1/h.B + 1/h.C + 1/h.D
}

// Round returns t with every cell rounded to the nearest non-negative
// integer, used before scoring a Weight-propagated table (spec.md
// §4.B "the Fisher variant of Weight rounds weighted counts to the
// nearest non-negative integer before computing exact probabilities").
func (t Table) Round() Table {
	return Table{
		A: math.Max(0, math.Round(t.A)),
		B: math.Max(0, math.Round(t.B)),
		C: math.Max(0, math.Round(t.C)),
		D: math.Max(0, math.Round(t.D)),
	}
}
