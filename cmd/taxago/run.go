package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-taxago/taxago/internal/config"
	"github.com/go-taxago/taxago/internal/ioformats/obo"
	"github.com/go-taxago/taxago/internal/meta"
	"github.com/go-taxago/taxago/internal/ontology"
	"github.com/go-taxago/taxago/internal/pipeline"
	"github.com/go-taxago/taxago/internal/plotdiag"
	"github.com/go-taxago/taxago/internal/report"
	"github.com/go-taxago/taxago/internal/xerrors"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run enrichment analysis across the configured species",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun()
		},
	}
	config.BindFlags(cmd, v)
	return cmd
}

func runRun() error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger.Info("loading ontology", zap.String("obo_path", cfg.OBOPath))
	dag, err := loadDag(cfg.OBOPath)
	if err != nil {
		return err
	}
	logger.Info("ontology loaded", zap.Int("terms", dag.Len()))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return xerrors.New(xerrors.ConfigError, "out_dir", err)
	}

	logger.Info("running per-taxon enrichment", zap.Int("cores", cfg.Cores))
	outcome, err := pipeline.Run(cfg, dag, logger)
	if err != nil {
		return err
	}

	for _, taxon := range outcome.Taxa {
		name := report.ResultFilename(taxon.SpeciesName)
		f, err := os.Create(filepath.Join(cfg.OutDir, name))
		if err != nil {
			return xerrors.New(xerrors.ConfigError, "out_dir", err)
		}
		err = report.WriteResults(f, taxon.Rows)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("writing results for %s: %w", taxon.TaxonID, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing results for %s: %w", taxon.TaxonID, closeErr)
		}
		logger.Info("wrote taxon results", zap.String("taxon", taxon.TaxonID), zap.Int("terms", len(taxon.Rows)))
	}

	if len(outcome.Groups) > 0 {
		var combined []report.CombinedRow
		for _, g := range outcome.Groups {
			combined = append(combined, g.Rows...)
			if cfg.PlotDir != "" {
				if err := plotGroup(cfg.PlotDir, g); err != nil {
					logger.Warn("plot failed", zap.String("group", g.Group), zap.Error(err))
				}
			}
		}
		f, err := os.Create(filepath.Join(cfg.OutDir, "combined_GOEA_results.txt"))
		if err != nil {
			return xerrors.New(xerrors.ConfigError, "out_dir", err)
		}
		err = report.WriteCombined(f, combined)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("writing combined results: %w", err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing combined results: %w", closeErr)
		}
	}

	for _, w := range outcome.Warnings {
		logger.Warn("pipeline warning", zap.String("detail", w))
	}
	return nil
}

func plotGroup(dir string, g pipeline.GroupResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	points := make([]plotdiag.Point, len(g.Rows))
	for i, row := range g.Rows {
		points[i] = plotdiag.FromResult(row.TermID, meta.Result{Tau2: row.Tau2})
	}
	return plotdiag.Plot(dir, g.Group, points)
}

func loadDag(path string) (*ontology.GODag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.New(xerrors.InputMissing, "obo_path", err)
	}
	defer f.Close()

	specs, err := obo.ParseAll(f)
	if err != nil {
		return nil, xerrors.New(xerrors.ParseError, "obo_path", err)
	}
	dag, err := ontology.Build(specs)
	if err != nil {
		return nil, xerrors.New(xerrors.ParseError, "obo_path", err)
	}
	return dag, nil
}
