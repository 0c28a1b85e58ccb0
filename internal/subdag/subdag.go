// Package subdag implements the common-ancestor sub-DAG extraction of
// spec.md §4.F: a pure graph operation over internal/ontology's
// precomputed ancestor/descendant bitsets.
package subdag

import (
	"sort"

	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/ontology"
)

// Edge is one induced edge of the extracted sub-DAG, preserving the
// relation kind of the original DAG edge.
type Edge struct {
	Child, Parent ontology.ID
	Kind          ontology.RelationKind
}

// Result is the extracted common-ancestor sub-DAG.
type Result struct {
	// All is A = (∩ ancestors(t) for t in terms) ∪ terms.
	All []ontology.ID
	// First is F ⊆ A\terms: the elements of A\terms with no descendant
	// also in A\terms, i.e. those closest to the input terms.
	First []ontology.ID
	// Edges are the induced edges of the sub-DAG over All, with their
	// original relation kind preserved.
	Edges []Edge
}

// Extract computes the common-ancestor sub-DAG of terms, per spec.md
// §4.F. An empty terms returns an empty Result. A single term t yields
// All = {t}∪ancestors(t) with its induced edges, since the intersection
// over one ancestor set is just that set.
func Extract(dag *ontology.GODag, terms []ontology.ID) Result {
	if len(terms) == 0 {
		return Result{}
	}

	common := dag.Ancestors(terms[0])
	for _, t := range terms[1:] {
		common = common.Intersect(dag.Ancestors(t))
	}
	var termSet bitset.Set
	for _, t := range terms {
		termSet = termSet.Add(int(t))
	}
	all := common.Union(termSet)

	aMinusT := all.Without(termSet)
	var first []ontology.ID
	for _, idx := range aMinusT.Indices() {
		id := ontology.ID(idx)
		if dag.Descendants(id).Intersect(aMinusT).IsEmpty() {
			first = append(first, id)
		}
	}

	var edges []Edge
	for _, idx := range all.Indices() {
		id := ontology.ID(idx)
		for _, kind := range ontology.AllRelationKinds() {
			for _, p := range dag.Parents(id, kind) {
				if all.Has(int(p)) {
					edges = append(edges, Edge{Child: id, Parent: p, Kind: kind})
				}
			}
		}
	}

	allIDs := make([]ontology.ID, 0, all.Len())
	for _, idx := range all.Indices() {
		allIDs = append(allIDs, ontology.ID(idx))
	}
	sort.Slice(allIDs, func(i, j int) bool { return allIDs[i] < allIDs[j] })
	sort.Slice(first, func(i, j int) bool { return first[i] < first[j] })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Child != edges[j].Child {
			return edges[i].Child < edges[j].Child
		}
		return edges[i].Parent < edges[j].Parent
	})

	return Result{All: allIDs, First: first, Edges: edges}
}
