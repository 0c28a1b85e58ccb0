// Package propagate implements the three count-propagation methods of
// spec.md §4.B: Classic (set union), Elim (iterative pruning) and
// Weight (reweighted contribution). All three consume a protein
// universe and a GO DAG and produce, per term, the study and
// background protein counts to carry into internal/enrich.
package propagate

import (
	"sort"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/ontology"
)

// Method names a propagation method per spec.md §4.B / §6.
type Method uint8

const (
	None Method = iota
	Classic
	Elim
	Weight
)

// ParseMethod parses the §6 propagate_counts enum.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "none":
		return None, true
	case "classic":
		return Classic, true
	case "elim":
		return Elim, true
	case "weight":
		return Weight, true
	default:
		return 0, false
	}
}

// Counts is one term's propagated protein counts, consumed by
// internal/enrich to build a contingency table. StudyWith/BackgroundWith
// are integral for Classic and Elim, but may carry a fractional part
// under Weight.
type Counts struct {
	Term           ontology.ID
	StudyWith      float64
	BackgroundWith float64
}

// orderedTerms returns the terms of namespace ns sorted by (Depth
// descending, StringID ascending): children always have strictly
// greater Depth than their is_a/part_of parents (internal/ontology
// computes Depth exactly that way), so this order is a valid
// leaves-first traversal, and doubles as spec.md §4.B's Elim tie-break
// rule ("ties broken by descending depth, then ascending term ID") in
// one deterministic sort.
func orderedTerms(dag *ontology.GODag, ns ontology.Namespace) []ontology.ID {
	ids := dag.TopologicalOrder(ns, true)
	sort.Slice(ids, func(i, j int) bool {
		di, dj := dag.Term(ids[i]).Depth, dag.Term(ids[j]).Depth
		if di != dj {
			return di > dj
		}
		return dag.Term(ids[i]).StringID < dag.Term(ids[j]).StringID
	})
	return ids
}

// propagatingParents returns term's is_a/part_of parents within its own
// namespace: the only edges that transmit counts (spec.md §3).
func propagatingParents(dag *ontology.GODag, term ontology.ID) []ontology.ID {
	ns := dag.Term(term).Namespace
	var out []ontology.ID
	for _, p := range dag.Parents(term, ontology.IsA, ontology.PartOf) {
		if dag.Term(p).Namespace == ns {
			out = append(out, p)
		}
	}
	return out
}

// toCounts renders a map of accumulated protein sets into Counts,
// intersecting each term's set with study to get the study count and
// taking the full set size as the background count.
func toCounts(ns ontology.Namespace, dag *ontology.GODag, acc []bitset.Set, study bitset.Set) []Counts {
	ids := dag.TopologicalOrder(ns, true)
	out := make([]Counts, len(ids))
	for i, id := range ids {
		out[i] = Counts{
			Term:           id,
			StudyWith:      float64(acc[id].Intersect(study).Len()),
			BackgroundWith: float64(acc[id].Len()),
		}
	}
	return out
}

// Options configures the significance test Elim uses internally to
// decide whether to prune a term's proteins from its ancestors.
type Options struct {
	Test      enrich.Test
	ElimAlpha float64
}

// RunNone reports each term's direct annotations with no propagation up
// the DAG at all, the §6 "none" propagate_counts value.
func RunNone(dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace) []Counts {
	ids := dag.TopologicalOrder(ns, true)
	out := make([]Counts, len(ids))
	for i, id := range ids {
		direct := u.Direct(id)
		out[i] = Counts{
			Term:           id,
			StudyWith:      float64(direct.Intersect(study).Len()),
			BackgroundWith: float64(direct.Len()),
		}
	}
	return out
}

// Run dispatches to the propagation method named by m, per spec.md §9's
// tagged-variant design note.
func Run(m Method, dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace, opt Options) []Counts {
	switch m {
	case None:
		return RunNone(dag, u, study, ns)
	case Elim:
		return RunElim(dag, u, study, ns, opt)
	case Weight:
		return RunWeight(dag, u, study, ns)
	default:
		return RunClassic(dag, u, study, ns)
	}
}
