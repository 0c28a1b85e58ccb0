package propagate

import (
	"math"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/ontology"
)

// RunWeight maintains a per-term, per-protein weight vector, initialized
// to 1 over each term's Classic-propagated protein set. Processing
// terms leaves first, every internal term compares its own enrichment
// score to each child's: a more-enriched child has its weight inflated
// and the shared proteins' contribution to the parent deflated in
// proportion, otherwise the child is deflated and the parent left
// unchanged (spec.md §4.B Weight).
func RunWeight(dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace) []Counts {
	acc := classicAccumulate(dag, u, ns)
	order := dag.TopologicalOrder(ns, true)

	weights := make([]map[assoc.ProteinID]float64, dag.Len())
	for _, id := range order {
		m := make(map[assoc.ProteinID]float64, acc[id].Len())
		for _, idx := range acc[id].Indices() {
			m[assoc.ProteinID(idx)] = 1
		}
		weights[id] = m
	}

	children := make(map[ontology.ID][]ontology.ID)
	for _, id := range order {
		for _, p := range propagatingParents(dag, id) {
			children[p] = append(children[p], id)
		}
	}

	totalStudy := float64(study.Len())
	totalBackground := float64(u.Background().Len())

	for _, t := range orderedTerms(dag, ns) {
		kids := children[t]
		if len(kids) == 0 {
			continue
		}
		st := weightedScore(weights[t], study, totalStudy, totalBackground)
		for _, c := range kids {
			sc := weightedScore(weights[c], study, totalStudy, totalBackground)
			if st <= 0 && sc <= 0 {
				continue
			}
			if sc > st {
				factor := sc / math.Max(st, minScoreFloor)
				for p := range weights[c] {
					weights[c][p] *= factor
					if _, ok := weights[t][p]; ok {
						weights[t][p] /= factor
					}
				}
			} else {
				factor := st / math.Max(sc, minScoreFloor)
				for p := range weights[c] {
					weights[c][p] /= factor
				}
			}
		}
	}

	out := make([]Counts, len(order))
	for i, id := range order {
		var a, c float64
		for p, w := range weights[id] {
			if study.Has(int(p)) {
				a += w
			} else {
				c += w
			}
		}
		out[i] = Counts{Term: id, StudyWith: a, BackgroundWith: a + c}
	}
	return out
}

// minScoreFloor keeps the inflate/deflate factor finite when one side of
// a comparison scores exactly zero.
const minScoreFloor = 1e-6

// weightedScore computes the non-negative log odds ratio of a term's
// currently weighted protein set against the study set.
func weightedScore(w map[assoc.ProteinID]float64, study bitset.Set, totalStudy, totalBackground float64) float64 {
	var a, c float64
	for p, wt := range w {
		if study.Has(int(p)) {
			a += wt
		} else {
			c += wt
		}
	}
	table := enrich.NewTable(a, a+c, totalStudy, totalBackground)
	lor := table.LogOddsRatio()
	if lor < 0 {
		return 0
	}
	return lor
}
