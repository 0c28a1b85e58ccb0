package enrich

import "sort"

// Correction names a multiple-testing correction per spec.md §4.C / §6.
type Correction uint8

const (
	None Correction = iota
	Bonferroni
	BenjaminiHochberg
	BenjaminiYekutieli
)

// ParseCorrection parses the §6 correction enum.
func ParseCorrection(s string) (Correction, bool) {
	switch s {
	case "none":
		return None, true
	case "bonferroni":
		return Bonferroni, true
	case "benjamini_hochberg":
		return BenjaminiHochberg, true
	case "benjamini_yekutieli":
		return BenjaminiYekutieli, true
	default:
		return 0, false
	}
}

// Adjust returns adjusted p-values parallel to raw, per the configured
// correction. m, the number of tests, is always len(raw): the family is
// exactly the p-values passed in.
func (c Correction) Adjust(raw []float64) []float64 {
	m := len(raw)
	adj := make([]float64, m)
	switch c {
	case None:
		copy(adj, raw)
		return adj
	case Bonferroni:
		for i, p := range raw {
			adj[i] = clampProb(p * float64(m))
		}
		return adj
	case BenjaminiHochberg, BenjaminiYekutieli:
		return stepUp(raw, c)
	default:
		copy(adj, raw)
		return adj
	}
}

// stepUp implements the Benjamini-Hochberg / Benjamini-Yekutieli
// step-up procedure: sort ascending, adjust p[(i)] by m/(i+1) (times a
// harmonic-number factor c(m) for BY), then enforce monotonicity by a
// running minimum from the largest p-value down.
func stepUp(raw []float64, method Correction) []float64 {
	m := len(raw)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return raw[order[i]] < raw[order[j]] })

	cm := 1.0
	if method == BenjaminiYekutieli {
		cm = 0
		for i := 1; i <= m; i++ {
			cm += 1 / float64(i)
		}
	}

	adjSorted := make([]float64, m)
	for rank := m - 1; rank >= 0; rank-- {
		i := order[rank]
		v := raw[i] * float64(m) * cm / float64(rank+1)
		if rank < m-1 && adjSorted[rank+1] < v {
			v = adjSorted[rank+1]
		}
		adjSorted[rank] = clampProb(v)
	}

	adj := make([]float64, m)
	for rank, i := range order {
		adj[i] = adjSorted[rank]
	}
	return adj
}
