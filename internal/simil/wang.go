package simil

import "github.com/go-taxago/taxago/internal/ontology"

// relationWeight gives Wang's contribution factor for each propagating
// relation kind (spec.md §4.E "is_a = 0.8, part_of = 0.6").
func relationWeight(kind ontology.RelationKind) (float64, bool) {
	switch kind {
	case ontology.IsA:
		return 0.8, true
	case ontology.PartOf:
		return 0.6, true
	default:
		return 0, false
	}
}

// sValues computes Wang's S-value contribution of term to every one of
// its ancestors: S(term) = 1, and S(a) is the maximum, over every child
// c of a lying on a path back to term, of weight(c->a) * S(c). Ties
// (multiple paths to the same ancestor) keep the maximum, computed by
// relaxing outward from term until no value improves.
func sValues(dag *ontology.GODag, term ontology.ID) map[ontology.ID]float64 {
	s := map[ontology.ID]float64{term: 1}
	queue := []ontology.ID{term}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curS := s[cur]
		for _, kind := range [...]ontology.RelationKind{ontology.IsA, ontology.PartOf} {
			w, _ := relationWeight(kind)
			for _, p := range dag.Parents(cur, kind) {
				cand := w * curS
				if existing, ok := s[p]; !ok || cand > existing {
					s[p] = cand
					queue = append(queue, p)
				}
			}
		}
	}
	return s
}

// Wang computes the Wang et al. graph-based similarity between a and b.
func Wang(dag *ontology.GODag, a, b ontology.ID) float64 {
	sa := sValues(dag, a)
	sb := sValues(dag, b)

	var shared, totalA, totalB float64
	for _, v := range sa {
		totalA += v
	}
	for _, v := range sb {
		totalB += v
	}
	for anc, va := range sa {
		if vb, ok := sb[anc]; ok {
			shared += va + vb
		}
	}
	denom := totalA + totalB
	if denom == 0 {
		return 0
	}
	return shared / denom
}
