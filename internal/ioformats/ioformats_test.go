package ioformats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudyCSV(t *testing.T) {
	const csvData = "taxon1,taxon2\np1,p3\np2,\n,p4\n"
	out, err := ParseStudyCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, out["taxon1"])
	assert.Equal(t, []string{"p3", "p4"}, out["taxon2"])
}

func TestParseStudyFASTA(t *testing.T) {
	const fasta = ">taxon1\np1\np2\n\np3\n"
	taxon, proteins, err := ParseStudyFASTA(strings.NewReader(fasta))
	require.NoError(t, err)
	assert.Equal(t, "taxon1", taxon)
	assert.Equal(t, []string{"p1", "p2", "p3"}, proteins)
}

func TestParseBackground(t *testing.T) {
	const tsv = "p1\tGO:0000001\tIDA\np2\tGO:0000002\tIEA\n"
	records, err := ParseBackground(strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].Protein)
	assert.Equal(t, "GO:0000001", records[0].Term)
	assert.Equal(t, "IDA", records[0].Evidence)
}

func TestParseLineage(t *testing.T) {
	const tsv = "taxon_id\tspecies_name\tGenus\tFamily\tOrder\tClass\tPhylum\tKingdom\tSuperkingdom\n" +
		"9606\tHomo sapiens\tHomo\tHominidae\tPrimates\tMammalia\tChordata\tAnimalia\tEukaryota\n"
	rows, err := ParseLineage(strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "9606", rows[0].TaxonID)
	rank, ok := rows[0].Rank("Class")
	assert.True(t, ok)
	assert.Equal(t, "Mammalia", rank)
}

func TestParseVCV(t *testing.T) {
	const csvData = "taxa,9606,10090\n9606,1,0.5\n10090,0.5,1\n"
	taxa, values, err := ParseVCV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, []string{"9606", "10090"}, taxa)
	assert.Equal(t, [][]float64{{1, 0.5}, {0.5, 1}}, values)
}

func TestParseVCVRejectsColumnMismatch(t *testing.T) {
	const csvData = "taxa,9606,AAAA\n9606,1,0.5\n10090,0.5,1\n"
	_, _, err := ParseVCV(strings.NewReader(csvData))
	assert.Error(t, err)
}
