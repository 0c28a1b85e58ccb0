package enrich

import "math"

// Test names a significance test per spec.md §4.C / §6.
type Test uint8

const (
	Fisher Test = iota
	Hypergeometric
)

// ParseTest parses the §6 test enum.
func ParseTest(s string) (Test, bool) {
	switch s {
	case "fisher":
		return Fisher, true
	case "hypergeometric":
		return Hypergeometric, true
	default:
		return 0, false
	}
}

// logChoose returns log(C(n, k)) via log-gamma, and -Inf (the log of a
// zero count) for out-of-range k.
func logChoose(n, k float64) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln1, _ := math.Lgamma(n + 1)
	ln2, _ := math.Lgamma(k + 1)
	ln3, _ := math.Lgamma(n - k + 1)
	return ln1 - ln2 - ln3
}

// hyperLogPMF returns log P(A = a) under Hypergeometric(N, K, n) with
// fixed margins K = a+c, n = a+b, N = a+b+c+d, evaluated at the table
// whose A-cell equals a.
func hyperLogPMF(a, K, n, N float64) float64 {
	return logChoose(K, a) + logChoose(N-K, n-a) - logChoose(N, n)
}

// P returns the significance p-value of t, per spec.md §4.C: the
// one-sided hypergeometric enrichment tail P(A >= a). Fisher's exact
// test and the hypergeometric test name the same formula in the spec;
// Test exists only to round-trip the configured test name, not to pick
// between two computations.
func (test Test) P(t Table) float64 {
	a, b, c, d := t.A, t.B, t.C, t.D
	N := a + b + c + d
	K := a + c // total proteins (study+background-only) with the term
	n := a + b // study size
	if N == 0 || n == 0 || K == 0 {
		return 1
	}
	hi := math.Min(n, K)

	var sum float64
	for ap := a; ap <= hi+0.5; ap++ {
		sum += math.Exp(hyperLogPMF(ap, K, n, N))
	}
	return clampProb(sum)
}

func clampProb(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
