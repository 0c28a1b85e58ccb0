package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResultsFormatsColumns(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResults(&buf, []Row{{
		TermID: "GO:0000001", Name: "root", Namespace: "biological_process",
		LogOddsRatio: 1.23456, AdjPValue: 0.000034567,
		StudyWith: 2, StudyWithout: 0, BgWith: 3, BgWithout: 7,
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], "\t")
	assert.Equal(t, "1.235", fields[3])
	assert.Equal(t, "3.45670e-05", fields[4])
}

func TestResultFilename(t *testing.T) {
	assert.Equal(t, "Homo_sapiens_GOEA_results.txt", ResultFilename("Homo_sapiens"))
}
