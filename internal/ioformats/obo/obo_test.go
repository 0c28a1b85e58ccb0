package obo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/ontology"
)

const sample = `format-version: 1.2

[Term]
id: GO:0000001
name: root process
namespace: biological_process

[Term]
id: GO:0000002
name: child process
namespace: biological_process
is_a: GO:0000001 ! root process
relationship: part_of GO:0000001 ! root process

[Typedef]
id: part_of
name: part of

[Term]
id: GO:0000003
name: obsolete process
namespace: biological_process
is_obsolete: true
`

func TestParseAll(t *testing.T) {
	specs, err := ParseAll(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, "GO:0000001", specs[0].StringID)
	assert.Equal(t, ontology.BiologicalProcess, specs[0].Namespace)

	assert.Equal(t, []string{"GO:0000001"}, specs[1].Relations[ontology.IsA])
	assert.Equal(t, []string{"GO:0000001"}, specs[1].Relations[ontology.PartOf])

	assert.True(t, specs[2].Obsolete)
}

func TestDecodeIgnoresUnknownRelation(t *testing.T) {
	const stanza = `[Term]
id: GO:0000004
name: weird
namespace: biological_process
relationship: frobnicates GO:0000001
`
	var warned bool
	dec := NewDecoder(strings.NewReader(stanza))
	dec.Warnf = func(string, ...any) { warned = true }

	spec, err := dec.Decode()
	require.NoError(t, err)
	assert.Empty(t, spec.Relations[ontology.IsA])
	assert.True(t, warned)
}
