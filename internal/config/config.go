// Package config defines the enumerated configuration surface of
// spec.md §6, bound from flags and an optional YAML file via
// spf13/cobra and spf13/viper, in the shape of
// inodb-vibe-vep/cmd/vibe-vep/config.go.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/propagate"
	"github.com/go-taxago/taxago/internal/simil"
	"github.com/go-taxago/taxago/internal/xerrors"
)

// Config is the fully validated configuration surface of spec.md §6,
// plus the ambient additions of SPEC_FULL.md (cache/plot directories,
// RNG seed override, worker count).
type Config struct {
	OBOPath        string `mapstructure:"obo_path"`
	StudyPath      string `mapstructure:"study_path"`
	BackgroundPath string `mapstructure:"background_path"`
	OutDir         string `mapstructure:"out_dir"`

	Evidence         string  `mapstructure:"evidence"`
	PropagateCounts  string  `mapstructure:"propagate_counts"`
	Test             string  `mapstructure:"test"`
	MinProt          int     `mapstructure:"min_prot"`
	MinScore         float64 `mapstructure:"min_score"`
	Alpha            float64 `mapstructure:"alpha"`
	CorrectionMethod string  `mapstructure:"correction_method"`

	GroupResults      string  `mapstructure:"group_results"`
	LineagePath       string  `mapstructure:"lineage_path"`
	LineagePercentage float64 `mapstructure:"lineage_percentage"`
	VCVMatrix         string  `mapstructure:"vcv_matrix"`
	Permutations      int     `mapstructure:"permutations"`
	PMIterations      int     `mapstructure:"pm_iterations"`
	PMTolerance       float64 `mapstructure:"pm_tolerance"`

	SimilarityMethod string `mapstructure:"similarity_method"`

	Cores      int    `mapstructure:"cores"`
	PlotFormat string `mapstructure:"plot_format"`
	CacheDir   string `mapstructure:"cache_dir"`
	PlotDir    string `mapstructure:"plot_dir"`
	Seed       int64  `mapstructure:"seed"`
}

// Defaults mirrors spec.md §6's stated defaults, plus SPEC_FULL.md's
// ambient additions.
var Defaults = Config{
	Evidence:         "all",
	PropagateCounts:  "classic",
	Test:             "fisher",
	MinProt:          5,
	MinScore:         0.2, // resolved Open Question, see DESIGN.md
	Alpha:            0.05,
	CorrectionMethod: "benjamini_hochberg",

	LineagePercentage: 0.25,
	Permutations:      1000,
	PMIterations:      1000,
	PMTolerance:       1e-6,

	SimilarityMethod: "resnik",

	Cores:      runtime.NumCPU(),
	PlotFormat: "png",
}

// BindFlags registers every configuration field as a persistent flag on
// cmd and binds it into v, so flags, a YAML config file, and the
// Defaults above compose in viper's usual precedence order.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	fs := cmd.PersistentFlags()
	fs.String("obo_path", "", "path to the OBO ontology file (required)")
	fs.String("study_path", "", "path to the study set CSV, FASTA file, or directory (required)")
	fs.String("background_path", "", "path to the per-taxon background directory (required)")
	fs.String("out_dir", "", "output directory (required)")

	fs.String("evidence", Defaults.Evidence, "evidence class filter")
	fs.String("propagate_counts", Defaults.PropagateCounts, "count propagation method")
	fs.String("test", Defaults.Test, "significance test")
	fs.Int("min_prot", Defaults.MinProt, "minimum background proteins annotated to a term to test it")
	fs.Float64("min_score", Defaults.MinScore, "minimum log odds ratio to report a term")
	fs.Float64("alpha", Defaults.Alpha, "significance threshold")
	fs.String("correction_method", Defaults.CorrectionMethod, "multiple-testing correction")

	fs.String("group_results", "", "taxonomic rank to group results by")
	fs.String("lineage_path", "", "path to the lineage TSV; required when group_results is set")
	fs.Float64("lineage_percentage", Defaults.LineagePercentage, "minimum fraction of a group required to meta-analyze a term")
	fs.String("vcv_matrix", "", "path to the VCV matrix CSV")
	fs.Int("permutations", Defaults.Permutations, "permutation count for meta-analysis p-values")
	fs.Int("pm_iterations", Defaults.PMIterations, "maximum Paule-Mandel iterations")
	fs.Float64("pm_tolerance", Defaults.PMTolerance, "Paule-Mandel convergence tolerance")

	fs.String("similarity_method", Defaults.SimilarityMethod, "semantic similarity method")

	fs.Int("cores", Defaults.Cores, "worker pool size")
	fs.String("plot_format", Defaults.PlotFormat, "diagnostic plot format; not read by the plot writer, which always writes PNG")
	fs.String("cache_dir", "", "optional on-disk propagated-count cache directory")
	fs.String("plot_dir", "", "optional diagnostic plot output directory")
	fs.Int64("seed", 0, "RNG seed override; 0 derives a seed per (group, term)")

	v.BindPFlags(fs)
}

// Load unmarshals v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, xerrors.New(xerrors.ConfigError, "unmarshal", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated field, returning a ConfigError or
// InputMissing error per spec.md §7.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"obo_path":        c.OBOPath,
		"study_path":      c.StudyPath,
		"background_path": c.BackgroundPath,
		"out_dir":         c.OutDir,
	} {
		if value == "" {
			return xerrors.New(xerrors.InputMissing, name, nil)
		}
	}

	if _, ok := assoc.NewEvidenceFilter(c.Evidence); !ok {
		return xerrors.New(xerrors.ConfigError, "evidence", fmt.Errorf("unknown value %q", c.Evidence))
	}
	if _, ok := propagate.ParseMethod(c.PropagateCounts); !ok {
		return xerrors.New(xerrors.ConfigError, "propagate_counts", fmt.Errorf("unknown value %q", c.PropagateCounts))
	}
	if _, ok := enrich.ParseTest(c.Test); !ok {
		return xerrors.New(xerrors.ConfigError, "test", fmt.Errorf("unknown value %q", c.Test))
	}
	if _, ok := enrich.ParseCorrection(c.CorrectionMethod); !ok {
		return xerrors.New(xerrors.ConfigError, "correction_method", fmt.Errorf("unknown value %q", c.CorrectionMethod))
	}
	if _, ok := simil.ParseMethod(c.SimilarityMethod); c.SimilarityMethod != "" && !ok {
		return xerrors.New(xerrors.ConfigError, "similarity_method", fmt.Errorf("unknown value %q", c.SimilarityMethod))
	}
	if c.MinProt < 0 {
		return xerrors.New(xerrors.ConfigError, "min_prot", fmt.Errorf("must be >= 0, got %d", c.MinProt))
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return xerrors.New(xerrors.ConfigError, "alpha", fmt.Errorf("must be in (0,1], got %g", c.Alpha))
	}
	if c.LineagePercentage < 0 || c.LineagePercentage > 1 {
		return xerrors.New(xerrors.ConfigError, "lineage_percentage", fmt.Errorf("must be in [0,1], got %g", c.LineagePercentage))
	}
	if c.Permutations <= 0 {
		return xerrors.New(xerrors.ConfigError, "permutations", fmt.Errorf("must be > 0, got %d", c.Permutations))
	}
	if c.PMIterations <= 0 {
		return xerrors.New(xerrors.ConfigError, "pm_iterations", fmt.Errorf("must be > 0, got %d", c.PMIterations))
	}
	if c.PMTolerance <= 0 {
		return xerrors.New(xerrors.ConfigError, "pm_tolerance", fmt.Errorf("must be > 0, got %g", c.PMTolerance))
	}
	if c.Cores <= 0 {
		return xerrors.New(xerrors.ConfigError, "cores", fmt.Errorf("must be > 0, got %d", c.Cores))
	}
	if c.GroupResults != "" && c.VCVMatrix == "" {
		return xerrors.New(xerrors.ConfigError, "vcv_matrix", fmt.Errorf("required when group_results is set"))
	}
	if c.GroupResults != "" && c.LineagePath == "" {
		return xerrors.New(xerrors.ConfigError, "lineage_path", fmt.Errorf("required when group_results is set"))
	}
	return nil
}
