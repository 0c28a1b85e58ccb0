package assoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/ontology"
)

func buildDag(t *testing.T) *ontology.GODag {
	t.Helper()
	d, err := ontology.Build([]ontology.TermSpec{
		{StringID: "GO:0000001", Name: "A", Namespace: ontology.BiologicalProcess},
		{StringID: "GO:0000002", Name: "B", Namespace: ontology.BiologicalProcess, Relations: map[ontology.RelationKind][]string{ontology.IsA: {"GO:0000001"}}},
	})
	require.NoError(t, err)
	return d
}

func TestBuildUniverseFiltersEvidenceAndUnknownTerms(t *testing.T) {
	d := buildDag(t)
	filter, ok := NewEvidenceFilter("experimental")
	require.True(t, ok)

	records := []Record{
		{Protein: "p1", Term: "GO:0000002", Evidence: "IDA"},
		{Protein: "p2", Term: "GO:0000002", Evidence: "IEA"}, // filtered out (electronic)
		{Protein: "p3", Term: "GO:9999999", Evidence: "IDA"}, // unknown term, dropped
	}
	u := BuildUniverse(d, records, filter)

	b, _ := d.Lookup("GO:0000002")
	assert.Equal(t, 1, u.Direct(b).Len())
	assert.Equal(t, 1, u.NumProteins())
	assert.Equal(t, 1, u.Background().Len())
}

func TestStudySetTracksUnresolvedProteins(t *testing.T) {
	d := buildDag(t)
	filter, _ := NewEvidenceFilter("all")
	b, _ := d.Lookup("GO:0000002")
	u := BuildUniverse(d, []Record{{Protein: "p1", Term: "GO:0000002", Evidence: "IDA"}}, filter)
	_ = b

	s := NewStudySet(u, []string{"p1", "p1", "", "pX"})
	assert.Equal(t, 1, s.Members().Len())
	assert.Equal(t, []string{"pX"}, s.Unresolved())
}
