package simil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/ontology"
)

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

func TestSelfSimilarityIsMaximum(t *testing.T) {
	d := toyDag(t)
	u := assoc.BuildUniverse(d, []assoc.Record{
		{Protein: "p1", Term: "GO:D", Evidence: "IDA"},
		{Protein: "p2", Term: "GO:C", Evidence: "IDA"},
	}, nil)
	ic := NewICModel(d, u, ontology.BiologicalProcess)
	dd, _ := d.Lookup("GO:D")

	assert.InDelta(t, ic.IC(dd), Similarity(Resnik, d, ic, dd, dd), 1e-9)
	assert.InDelta(t, 1.0, Similarity(Lin, d, ic, dd, dd), 1e-9)
	assert.InDelta(t, 1.0, Similarity(JiangConrath, d, ic, dd, dd), 1e-9)
	assert.InDelta(t, 1.0, Similarity(WangMethod, d, ic, dd, dd), 1e-9)
}

func TestCrossNamespaceIsNaN(t *testing.T) {
	d, err := ontology.Build([]ontology.TermSpec{
		{StringID: "GO:A", Name: "A", Namespace: ontology.BiologicalProcess},
		{StringID: "GO:X", Name: "X", Namespace: ontology.MolecularFunction},
	})
	require.NoError(t, err)
	u := assoc.BuildUniverse(d, nil, nil)
	ic := NewICModel(d, u, ontology.BiologicalProcess)
	a, _ := d.Lookup("GO:A")
	x, _ := d.Lookup("GO:X")
	assert.True(t, math.IsNaN(Similarity(Resnik, d, ic, a, x)))
}

func TestWangSharedAncestorWeighting(t *testing.T) {
	d := toyDag(t)
	c, _ := d.Lookup("GO:C")
	dd, _ := d.Lookup("GO:D")
	sim := Wang(d, c, dd)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}
