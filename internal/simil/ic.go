// Package simil implements the four semantic similarity measures of
// spec.md §4.E: Resnik, Lin, Jiang-Conrath (all information-content
// based) and Wang (graph S-value based).
package simil

import (
	"math"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/ontology"
)

// ICModel holds the information content of every term in one namespace,
// derived from how many background proteins are annotated to the term
// or any of its is_a/part_of descendants (spec.md §4.E).
type ICModel struct {
	dag *ontology.GODag
	ic  []float64
}

// NewICModel computes IC(t) = -log(p(t)) for every term in ns, where
// p(t) is the fraction of background proteins annotated to t or a
// descendant. Terms with no annotated proteins below them (p = 0) get
// IC 0 rather than +Inf, treating "no evidence" as "no information"
// instead of propagating an infinity through Lin/Jiang-Conrath.
func NewICModel(dag *ontology.GODag, u *assoc.Universe, ns ontology.Namespace) *ICModel {
	total := float64(u.Background().Len())
	ic := make([]float64, dag.Len())
	if total == 0 {
		return &ICModel{dag: dag, ic: ic}
	}
	for _, id := range dag.TopologicalOrder(ns, true) {
		set := u.Direct(id)
		for _, d := range dag.PropagatingDescendants(id).Indices() {
			set = set.Union(u.Direct(ontology.ID(d)))
		}
		n := set.Len()
		if n == 0 {
			continue
		}
		ic[id] = -math.Log(float64(n) / total)
	}
	return &ICModel{dag: dag, ic: ic}
}

// IC returns the information content of term.
func (m *ICModel) IC(term ontology.ID) float64 { return m.ic[term] }

// MICA returns the common ancestor (within a and b's own namespace,
// including a or b themselves) of maximum information content.
func (m *ICModel) MICA(a, b ontology.ID) (ontology.ID, bool) {
	ns := m.dag.Term(a).Namespace
	sa := m.dag.Ancestors(a).Add(int(a))
	sb := m.dag.Ancestors(b).Add(int(b))
	common := sa.Intersect(sb)

	best, bestIC := ontology.ID(-1), math.Inf(-1)
	for _, idx := range common.Indices() {
		id := ontology.ID(idx)
		if m.dag.Term(id).Namespace != ns {
			continue
		}
		if ic := m.ic[id]; ic > bestIC {
			bestIC, best = ic, id
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
