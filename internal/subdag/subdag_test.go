package subdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/ontology"
)

// toyDag: A root, B and C children of A (is_a), D child of B (is_a).
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

func TestExtractCommonAncestor(t *testing.T) {
	d := toyDag(t)
	dd, _ := d.Lookup("GO:D")
	c, _ := d.Lookup("GO:C")
	a, _ := d.Lookup("GO:A")

	res := Extract(d, []ontology.ID{dd, c})
	assert.ElementsMatch(t, []ontology.ID{a, dd, c}, res.All)
	assert.Equal(t, []ontology.ID{a}, res.First)
}

func TestExtractEmpty(t *testing.T) {
	d := toyDag(t)
	res := Extract(d, nil)
	assert.Empty(t, res.All)
}
