package propagate

import (
	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/ontology"
)

// RunClassic propagates counts by unioning each term's directly
// annotated proteins into its is_a/part_of parents, processed leaves
// first so each term's accumulated set already includes everything
// below it by the time its parent consumes it (spec.md §4.B Classic).
func RunClassic(dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace) []Counts {
	acc := classicAccumulate(dag, u, ns)
	return toCounts(ns, dag, acc, study)
}

// classicAccumulate returns, for every term, its direct annotations
// union the accumulated sets of all its is_a/part_of children.
func classicAccumulate(dag *ontology.GODag, u *assoc.Universe, ns ontology.Namespace) []bitset.Set {
	acc := make([]bitset.Set, dag.Len())
	order := orderedTerms(dag, ns)
	for _, id := range order {
		acc[id] = acc[id].Union(u.Direct(id))
	}
	for _, id := range order {
		for _, parent := range propagatingParents(dag, id) {
			acc[parent] = acc[parent].Union(acc[id])
		}
	}
	return acc
}
