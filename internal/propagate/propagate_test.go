package propagate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/ontology"
)

// toyDag reproduces spec.md §8 scenario 1: A is the namespace root, B
// and C are children of A, D is a child of B.
func toyDag(t *testing.T) *ontology.GODag {
	t.Helper()
	d, err := ontology.Build([]ontology.TermSpec{
		{StringID: "GO:A", Name: "A", Namespace: ontology.BiologicalProcess},
		{StringID: "GO:B", Name: "B", Namespace: ontology.BiologicalProcess, Relations: map[ontology.RelationKind][]string{ontology.IsA: {"GO:A"}}},
		{StringID: "GO:C", Name: "C", Namespace: ontology.BiologicalProcess, Relations: map[ontology.RelationKind][]string{ontology.IsA: {"GO:A"}}},
		{StringID: "GO:D", Name: "D", Namespace: ontology.BiologicalProcess, Relations: map[ontology.RelationKind][]string{ontology.IsA: {"GO:B"}}},
	})
	require.NoError(t, err)
	return d
}

func TestRunClassicUnionsDescendants(t *testing.T) {
	d := toyDag(t)
	a, _ := d.Lookup("GO:A")
	b, _ := d.Lookup("GO:B")
	dd, _ := d.Lookup("GO:D")

	u := assoc.BuildUniverse(d, []assoc.Record{
		{Protein: "p1", Term: "GO:D", Evidence: "IDA"},
		{Protein: "p2", Term: "GO:B", Evidence: "IDA"},
		{Protein: "p3", Term: "GO:C", Evidence: "IDA"},
	}, nil)

	study := bitset.New()
	p1, _ := u.ProteinID("p1")
	study = study.Add(int(p1))

	counts := RunClassic(d, u, study, ontology.BiologicalProcess)
	byTerm := map[ontology.ID]Counts{}
	for _, c := range counts {
		byTerm[c.Term] = c
	}

	assert.Equal(t, 1.0, byTerm[dd].StudyWith)
	assert.Equal(t, 1.0, byTerm[dd].BackgroundWith)
	// B's accumulated set is D's protein plus B's own direct protein.
	assert.Equal(t, 2.0, byTerm[b].BackgroundWith)
	// A accumulates everything below it: p1, p2, p3.
	assert.Equal(t, 3.0, byTerm[a].BackgroundWith)
}

func TestRunElimPrunesSignificantAncestors(t *testing.T) {
	d := toyDag(t)
	a, _ := d.Lookup("GO:A")
	b, _ := d.Lookup("GO:B")
	dd, _ := d.Lookup("GO:D")

	u := assoc.BuildUniverse(d, []assoc.Record{
		{Protein: "p1", Term: "GO:D", Evidence: "IDA"},
		{Protein: "p2", Term: "GO:D", Evidence: "IDA"},
		{Protein: "p3", Term: "GO:C", Evidence: "IDA"},
	}, nil)
	study := bitset.New()
	for _, pr := range []string{"p1", "p2"} {
		id, _ := u.ProteinID(pr)
		study = study.Add(int(id))
	}

	counts := RunElim(d, u, study, ontology.BiologicalProcess, Options{Test: enrich.Fisher, ElimAlpha: 0.5})
	byTerm := map[ontology.ID]Counts{}
	for _, c := range counts {
		byTerm[c.Term] = c
	}
	// D (p=1/3) clears the 0.5 threshold, so its proteins are pruned
	// from B and A before those are evaluated; B and C (p=1) do not.
	assert.Equal(t, 2.0, byTerm[dd].StudyWith)
	assert.Equal(t, 0.0, byTerm[b].BackgroundWith)
	assert.Equal(t, 1.0, byTerm[a].BackgroundWith)
}

func TestRunWeightKeepsTotalMassBounded(t *testing.T) {
	d := toyDag(t)
	a, _ := d.Lookup("GO:A")

	u := assoc.BuildUniverse(d, []assoc.Record{
		{Protein: "p1", Term: "GO:D", Evidence: "IDA"},
		{Protein: "p2", Term: "GO:C", Evidence: "IDA"},
	}, nil)
	study := bitset.New()
	p1, _ := u.ProteinID("p1")
	study = study.Add(int(p1))

	counts := RunWeight(d, u, study, ontology.BiologicalProcess)
	byTerm := map[ontology.ID]Counts{}
	for _, c := range counts {
		byTerm[c.Term] = c
	}
	assert.Greater(t, byTerm[a].BackgroundWith, 0.0)
	assert.GreaterOrEqual(t, byTerm[a].StudyWith, 0.0)
}
