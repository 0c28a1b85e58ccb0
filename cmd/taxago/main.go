// Command taxago performs Gene Ontology Enrichment Analysis across one
// or many species, with optional count propagation along the GO DAG,
// phylogenetically-aware meta-analysis across a taxonomic rank, and
// standalone semantic-similarity and common-ancestor-extraction tools.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  *zap.Logger
	runID   string

	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "taxago",
	Short: "Gene Ontology Enrichment Analysis across one or many species",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		runID = uuid.NewString()
		logger = logger.With(zap.String("run_id", runID))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	home, err := os.UserHomeDir()
	if err == nil {
		v.SetConfigFile(filepath.Join(home, ".taxago.yaml"))
		v.SetConfigType("yaml")
		_ = v.ReadInConfig()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSimilarityCmd())
	rootCmd.AddCommand(newSubdagCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
