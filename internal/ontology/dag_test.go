package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toyDAG builds the spec.md §8 scenario 1 toy ontology: A (root), B is_a
// A, C is_a A, D is_a B.
func toyDAG(t *testing.T) *GODag {
	t.Helper()
	specs := []TermSpec{
		{StringID: "GO:0000001", Name: "A", Namespace: BiologicalProcess},
		{StringID: "GO:0000002", Name: "B", Namespace: BiologicalProcess, Relations: map[RelationKind][]string{IsA: {"GO:0000001"}}},
		{StringID: "GO:0000003", Name: "C", Namespace: BiologicalProcess, Relations: map[RelationKind][]string{IsA: {"GO:0000001"}}},
		{StringID: "GO:0000004", Name: "D", Namespace: BiologicalProcess, Relations: map[RelationKind][]string{IsA: {"GO:0000002"}}},
	}
	d, err := Build(specs)
	require.NoError(t, err)
	return d
}

func TestBuildToyDAG(t *testing.T) {
	d := toyDAG(t)
	a, _ := d.Lookup("GO:0000001")
	b, _ := d.Lookup("GO:0000002")
	c, _ := d.Lookup("GO:0000003")
	dd, _ := d.Lookup("GO:0000004")

	assert.Equal(t, a, d.NamespaceRoot(BiologicalProcess))
	assert.Equal(t, 0, d.Term(a).Depth)
	assert.Equal(t, 1, d.Term(b).Depth)
	assert.Equal(t, 1, d.Term(c).Depth)
	assert.Equal(t, 2, d.Term(dd).Depth)

	assert.ElementsMatch(t, []int{int(a)}, d.PropagatingAncestors(b).Indices())
	assert.ElementsMatch(t, []int{int(a), int(b)}, d.PropagatingAncestors(dd).Indices())
	assert.ElementsMatch(t, []int{int(b), int(c), int(dd)}, d.Descendants(a).Indices())
}

func TestAncestorsAcyclicAndRooted(t *testing.T) {
	d := toyDAG(t)
	for id := ID(0); int(id) < d.Len(); id++ {
		anc := d.Ancestors(id)
		assert.NotContains(t, anc.Indices(), int(id), "ancestor set must not contain itself")
		// every non-root term has the namespace root among its ancestors.
		root := d.NamespaceRoot(d.Term(id).Namespace)
		if id != root {
			assert.True(t, anc.Has(int(root)))
		}
	}
}

func TestBuildRejectsCycle(t *testing.T) {
	specs := []TermSpec{
		{StringID: "GO:0000001", Name: "A", Namespace: BiologicalProcess, Relations: map[RelationKind][]string{IsA: {"GO:0000002"}}},
		{StringID: "GO:0000002", Name: "B", Namespace: BiologicalProcess, Relations: map[RelationKind][]string{IsA: {"GO:0000001"}}},
	}
	_, err := Build(specs)
	assert.Error(t, err)
}

func TestBuildRejectsOrphanTerm(t *testing.T) {
	specs := []TermSpec{
		{StringID: "GO:0000001", Name: "A", Namespace: BiologicalProcess},
		{StringID: "GO:0000002", Name: "orphan", Namespace: BiologicalProcess},
	}
	_, err := Build(specs)
	assert.Error(t, err, "a second term with no parent in its namespace is a second root, not a connectivity violation")
}

func TestBuildOnlyRequiresRootForNamespacesPresent(t *testing.T) {
	specs := []TermSpec{
		{StringID: "GO:0000001", Name: "A", Namespace: MolecularFunction},
	}
	_, err := Build(specs)
	require.NoError(t, err, "namespaces absent from the input need no root")
}

func TestTopologicalOrderLeavesFirstThenRootsFirst(t *testing.T) {
	d := toyDAG(t)
	order := d.TopologicalOrder(BiologicalProcess, true)
	pos := make(map[ID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	a, _ := d.Lookup("GO:0000001")
	b, _ := d.Lookup("GO:0000002")
	dd, _ := d.Lookup("GO:0000004")
	assert.Less(t, pos[dd], pos[b])
	assert.Less(t, pos[b], pos[a])

	rev := d.TopologicalOrder(BiologicalProcess, false)
	assert.Equal(t, order[0], rev[len(rev)-1])
}
