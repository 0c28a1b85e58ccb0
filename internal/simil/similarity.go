package simil

import (
	"math"

	"github.com/go-taxago/taxago/internal/ontology"
)

// Method names a similarity measure per spec.md §4.E / §6.
type Method uint8

const (
	Resnik Method = iota
	Lin
	JiangConrath
	WangMethod
)

// ParseMethod parses the §6 similarity_method enum.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "resnik":
		return Resnik, true
	case "lin":
		return Lin, true
	case "jiang_conrath":
		return JiangConrath, true
	case "wang":
		return WangMethod, true
	default:
		return 0, false
	}
}

// Similarity scores a and b under the given method. Cross-namespace
// pairs return NaN (spec.md §4.E "cross-namespace similarity is
// undefined").
func Similarity(method Method, dag *ontology.GODag, ic *ICModel, a, b ontology.ID) float64 {
	if dag.Term(a).Namespace != dag.Term(b).Namespace {
		return math.NaN()
	}
	if method == WangMethod {
		return Wang(dag, a, b)
	}

	mica, ok := ic.MICA(a, b)
	if !ok {
		return 0
	}
	icMICA := ic.IC(mica)

	switch method {
	case Lin:
		denom := ic.IC(a) + ic.IC(b)
		if denom == 0 {
			return 0
		}
		return 2 * icMICA / denom
	case JiangConrath:
		d := ic.IC(a) + ic.IC(b) - 2*icMICA
		return 1 / (1 + d)
	default: // Resnik
		return icMICA
	}
}
