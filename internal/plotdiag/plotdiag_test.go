package plotdiag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotWritesFile(t *testing.T) {
	dir := t.TempDir()
	err := Plot(dir, "Mammalia", []Point{
		{Term: "GO:A", Tau2: 0.5, I2: 0.8},
		{Term: "GO:B", Tau2: 0.1, I2: 0.2},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "Mammalia_tau2.png"))
	assert.NoError(t, err)
}

func TestPlotSkipsEmptyInput(t *testing.T) {
	err := Plot(t.TempDir(), "Mammalia", nil)
	assert.NoError(t, err)
}
