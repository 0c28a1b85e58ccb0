package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-taxago/taxago/internal/config"
	"github.com/go-taxago/taxago/internal/ontology"
)

func toyDag(t *testing.T) *ontology.GODag {
	t.Helper()
	d, err := ontology.Build([]ontology.TermSpec{
		{StringID: "GO:A", Name: "A", Namespace: ontology.BiologicalProcess},
		{StringID: "GO:B", Name: "B", Namespace: ontology.BiologicalProcess, Relations: map[ontology.RelationKind][]string{ontology.IsA: {"GO:A"}}},
	})
	require.NoError(t, err)
	return d
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunProducesPerTaxonRows(t *testing.T) {
	dag := toyDag(t)
	dir := t.TempDir()

	studyPath := filepath.Join(dir, "study.csv")
	writeFile(t, studyPath, "taxon1\np1\np2\n")

	writeFile(t, filepath.Join(dir, "taxon1_background.txt"),
		"p1\tGO:B\tIDA\np2\tGO:B\tIDA\np3\tGO:A\tIDA\np4\tGO:A\tIDA\np5\tGO:A\tIDA\np6\tGO:A\tIDA\np7\tGO:A\tIDA\n")

	cfg := &config.Config{
		StudyPath:        studyPath,
		BackgroundPath:   dir,
		OutDir:           dir,
		Evidence:         "all",
		PropagateCounts:  "classic",
		Test:             "fisher",
		CorrectionMethod: "none",
		MinProt:          1,
		MinScore:         0,
		Alpha:            0.05,
		Cores:            2,
	}

	out, err := Run(cfg, dag, nil)
	require.NoError(t, err)
	require.Len(t, out.Taxa, 1)
	assert.Equal(t, "taxon1", out.Taxa[0].TaxonID)
	assert.NotEmpty(t, out.Taxa[0].Rows)
	for _, row := range out.Taxa[0].Rows {
		assert.Contains(t, []string{"GO:A", "GO:B"}, row.TermID)
	}
}

func TestRunIsolatesMissingBackgroundTaxon(t *testing.T) {
	dag := toyDag(t)
	dir := t.TempDir()

	studyPath := filepath.Join(dir, "study.csv")
	writeFile(t, studyPath, "taxon1,taxon2\np1,p1\n")
	writeFile(t, filepath.Join(dir, "taxon1_background.txt"), "p1\tGO:A\tIDA\n")
	// taxon2 has no background file.

	cfg := &config.Config{
		StudyPath:        studyPath,
		BackgroundPath:   dir,
		OutDir:           dir,
		Evidence:         "all",
		PropagateCounts:  "classic",
		Test:             "fisher",
		CorrectionMethod: "none",
		MinProt:          0,
		MinScore:         -10,
		Alpha:            0.05,
		Cores:            2,
	}

	out, err := Run(cfg, dag, nil)
	require.NoError(t, err)
	require.Len(t, out.Taxa, 1)
	assert.Equal(t, "taxon1", out.Taxa[0].TaxonID)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "taxon2")
}
