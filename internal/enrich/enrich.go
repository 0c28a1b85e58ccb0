package enrich

import (
	"sort"

	"github.com/go-taxago/taxago/internal/ontology"
)

// Result is one term's enrichment test outcome, per spec.md §3 EnrichmentResult.
type Result struct {
	Term         ontology.ID
	Table        Table
	LogOddsRatio float64
	PValue       float64
	AdjPValue    float64
}

// Candidate is one term's propagated counts, as produced by
// internal/propagate, ready to be scored.
type Candidate struct {
	Term            ontology.ID
	StudyWith       float64
	BackgroundWith  float64
	TotalStudy      float64
	TotalBackground float64
}

// Options configures a Run.
type Options struct {
	Test        Test
	Correction  Correction
	MinStudyHit int     // spec.md §6 min_prot: minimum BackgroundWith count to test a term at all
	MinScore    float64 // spec.md §6 min_score: minimum (signed) log odds ratio to report a term
	Alpha       float64 // spec.md §6 alpha: maximum adjusted p-value to report a term; <= 0 means unset (no cap)
}

// Run scores every candidate, applies the multiple-testing correction
// over the family of terms that passed MinStudyHit, and returns the
// results whose corrected p-value passes Alpha and log odds ratio
// passes MinScore, sorted by Term for deterministic output.
// MinStudyHit filters on BackgroundWith, per spec.md §4.C ("filtering
// by min_prot applied to n_background_with") — a term absent from the
// background is excluded regardless of its study count. Alpha is
// applied after correction, per §4.C's "terms with adjusted p > alpha
// are filtered from the output".
func Run(candidates []Candidate, opt Options) []Result {
	tested := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if int(c.BackgroundWith+0.5) < opt.MinStudyHit {
			continue
		}
		tested = append(tested, c)
	}

	tables := make([]Table, len(tested))
	raw := make([]float64, len(tested))
	for i, c := range tested {
		t := NewTable(c.StudyWith, c.BackgroundWith, c.TotalStudy, c.TotalBackground).Round()
		tables[i] = t
		raw[i] = opt.Test.P(t)
	}
	adj := opt.Correction.Adjust(raw)

	out := make([]Result, 0, len(tested))
	for i, c := range tested {
		logOR := tables[i].LogOddsRatio()
		if logOR < opt.MinScore {
			continue
		}
		if opt.Alpha > 0 && adj[i] > opt.Alpha {
			continue
		}
		out = append(out, Result{
			Term:         c.Term,
			Table:        tables[i],
			LogOddsRatio: logOR,
			PValue:       raw[i],
			AdjPValue:    adj[i],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}
