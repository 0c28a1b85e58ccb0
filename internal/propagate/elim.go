package propagate

import (
	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/ontology"
)

// RunElim starts from the Classic propagation and, processing terms
// leaves first, removes a significant term's current protein set from
// every one of its ancestors before those ancestors are themselves
// evaluated, per spec.md §4.B Elim. Significance is judged against
// opt.ElimAlpha using opt.Test, independently of the overall multiple-
// testing correction applied later in internal/enrich.
func RunElim(dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace, opt Options) []Counts {
	acc := classicAccumulate(dag, u, ns)
	totalStudy := float64(study.Len())
	totalBackground := float64(u.Background().Len())

	for _, id := range orderedTerms(dag, ns) {
		studyWith := float64(acc[id].Intersect(study).Len())
		bgWith := float64(acc[id].Len())
		table := enrich.NewTable(studyWith, bgWith, totalStudy, totalBackground)
		if opt.Test.P(table) > opt.ElimAlpha {
			continue
		}
		removal := acc[id]
		for _, anc := range dag.PropagatingAncestors(id).Indices() {
			acc[ontology.ID(anc)] = acc[ontology.ID(anc)].Without(removal)
		}
	}
	return toCounts(ns, dag, acc, study)
}
