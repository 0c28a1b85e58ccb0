// Package pipeline orchestrates the end-to-end GOEA run of spec.md
// §4.G: per-taxon enrichment fanned out across a bounded worker pool,
// then an optional phylogenetic meta-analysis across taxonomic groups,
// in the shape of cmd/smeargol/smeargol.go's distributeCounts
// goroutine-per-unit-of-work fan-out, upgraded to a bounded pool.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/go-taxago/taxago/internal/assoc"
	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/config"
	"github.com/go-taxago/taxago/internal/enrich"
	"github.com/go-taxago/taxago/internal/ioformats"
	"github.com/go-taxago/taxago/internal/meta"
	"github.com/go-taxago/taxago/internal/ontology"
	"github.com/go-taxago/taxago/internal/propagate"
	"github.com/go-taxago/taxago/internal/report"
	"github.com/go-taxago/taxago/internal/xerrors"
)

// TaxonResult is one taxon's finished enrichment output.
type TaxonResult struct {
	TaxonID     string
	SpeciesName string
	Rows        []report.Row
	Unresolved  []string

	// perTerm retains the table behind each row, keyed by term, for
	// meta-analysis contribution extraction; not part of the written
	// output.
	perTerm map[ontology.ID]enrich.Result
}

// GroupResult is one taxonomic group's pooled meta-analysis output.
type GroupResult struct {
	Group string
	Rows  []report.CombinedRow
}

// Outcome is the full result of a Run: one TaxonResult per taxon that
// did not fail outright, plus any requested GroupResults.
type Outcome struct {
	Taxa     []TaxonResult
	Groups   []GroupResult
	Warnings []string
}

// Run executes the full pipeline described by cfg against dag: reads
// the study and background inputs, fans per-taxon enrichment out across
// a worker pool sized by cfg.Cores, and, if cfg.GroupResults is set,
// pools eligible taxa's effect sizes into a phylogenetic meta-analysis.
//
// A single taxon's failure is isolated: it is dropped with a warning
// and the run continues (spec.md §7 "per-taxon pipeline failures are
// isolated"), including a missing or unreadable background file.
// Configuration, OBO, and study read failures are fatal.
func Run(cfg *config.Config, dag *ontology.GODag, log *zap.Logger) (*Outcome, error) {
	study, err := readStudy(cfg.StudyPath)
	if err != nil {
		return nil, err
	}

	cache, _ := lru.New[string, []propagate.Counts](1024)
	disk, err := openDiskCache(cfg.CacheDir)
	if err != nil {
		return nil, xerrors.New(xerrors.ConfigError, "cache_dir", err)
	}
	defer disk.Close()

	taxonIDs := make([]string, 0, len(study))
	for t := range study {
		taxonIDs = append(taxonIDs, t)
	}
	sort.Strings(taxonIDs)

	results := make([]*TaxonResult, len(taxonIDs))
	warnings := make([]string, len(taxonIDs))

	p := pool.New().WithMaxGoroutines(cfg.Cores)
	for i, taxon := range taxonIDs {
		i, taxon := i, taxon
		p.Go(func() {
			res, warn, err := runTaxon(cfg, dag, taxon, study[taxon], cache, disk)
			if err != nil {
				warnings[i] = fmt.Sprintf("taxon %s: %v", taxon, err)
				return
			}
			results[i] = res
			warnings[i] = warn
		})
	}
	p.Wait()

	out := &Outcome{}
	for i, r := range results {
		if warnings[i] != "" {
			out.Warnings = append(out.Warnings, warnings[i])
		}
		if r != nil {
			out.Taxa = append(out.Taxa, *r)
		}
	}
	if log != nil {
		for _, w := range out.Warnings {
			log.Warn("taxon skipped", zap.String("detail", w))
		}
	}

	if cfg.LineagePath != "" {
		applySpeciesNames(cfg, out.Taxa)
	}

	if cfg.GroupResults != "" {
		groups, groupWarnings, err := runGroups(cfg, dag, out.Taxa)
		if err != nil {
			return nil, err
		}
		out.Groups = groups
		out.Warnings = append(out.Warnings, groupWarnings...)
	}
	return out, nil
}

// readStudy loads the study set per spec.md §6, dispatching on whether
// study_path names a directory, a single FASTA-like file, or a CSV.
func readStudy(path string) (map[string][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.New(xerrors.InputMissing, "study_path", err)
	}
	if info.IsDir() {
		out, err := ioformats.ParseStudyDir(path)
		if err != nil {
			return nil, xerrors.New(xerrors.ParseError, "study_path", err)
		}
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.New(xerrors.InputMissing, "study_path", err)
	}
	defer f.Close()

	ext := filepath.Ext(path)
	if ext == ".fa" || ext == ".fasta" {
		taxon, proteins, err := ioformats.ParseStudyFASTA(f)
		if err != nil {
			return nil, xerrors.New(xerrors.ParseError, "study_path", err)
		}
		return map[string][]string{taxon: proteins}, nil
	}

	out, err := ioformats.ParseStudyCSV(f)
	if err != nil {
		return nil, xerrors.New(xerrors.ParseError, "study_path", err)
	}
	return out, nil
}

// runTaxon builds a taxon's association universe and runs enrichment
// over every namespace.
func runTaxon(cfg *config.Config, dag *ontology.GODag, taxon string, studyProteins []string, cache *lru.Cache[string, []propagate.Counts], disk *diskCache) (*TaxonResult, string, error) {
	bgPath := filepath.Join(cfg.BackgroundPath, taxon+"_background.txt")
	bgFile, err := os.Open(bgPath)
	if err != nil {
		return nil, "", xerrors.New(xerrors.InputMissing, "background_path", err)
	}
	defer bgFile.Close()

	records, err := ioformats.ParseBackground(bgFile)
	if err != nil {
		return nil, "", xerrors.New(xerrors.ParseError, "background_path", err)
	}

	filter, ok := assoc.NewEvidenceFilter(cfg.Evidence)
	if !ok {
		return nil, "", xerrors.New(xerrors.ConfigError, "evidence", fmt.Errorf("unknown value %q", cfg.Evidence))
	}
	universe := assoc.BuildUniverse(dag, records, filter)
	studySet := assoc.NewStudySet(universe, studyProteins)

	var warning string
	if len(studySet.Unresolved()) > 0 {
		warning = fmt.Sprintf("%d study proteins absent from background", len(studySet.Unresolved()))
	}

	method, ok := propagate.ParseMethod(cfg.PropagateCounts)
	if !ok {
		return nil, "", xerrors.New(xerrors.ConfigError, "propagate_counts", fmt.Errorf("unknown value %q", cfg.PropagateCounts))
	}
	test, ok := enrich.ParseTest(cfg.Test)
	if !ok {
		return nil, "", xerrors.New(xerrors.ConfigError, "test", fmt.Errorf("unknown value %q", cfg.Test))
	}
	correction, ok := enrich.ParseCorrection(cfg.CorrectionMethod)
	if !ok {
		return nil, "", xerrors.New(xerrors.ConfigError, "correction_method", fmt.Errorf("unknown value %q", cfg.CorrectionMethod))
	}

	totalStudy := float64(studySet.Members().Len())
	totalBackground := float64(universe.Background().Len())

	perTerm := make(map[ontology.ID]enrich.Result)
	var rows []report.Row
	for _, ns := range ontology.Namespaces() {
		counts := propagatedCounts(cache, disk, method, dag, universe, studySet.Members(), ns, test, cfg, taxon)

		candidates := make([]enrich.Candidate, len(counts))
		for i, c := range counts {
			candidates[i] = enrich.Candidate{
				Term:            c.Term,
				StudyWith:       c.StudyWith,
				BackgroundWith:  c.BackgroundWith,
				TotalStudy:      totalStudy,
				TotalBackground: totalBackground,
			}
		}

		nsResults := enrich.Run(candidates, enrich.Options{
			Test:        test,
			Correction:  correction,
			MinStudyHit: cfg.MinProt,
			MinScore:    cfg.MinScore,
			Alpha:       cfg.Alpha,
		})
		for _, r := range nsResults {
			perTerm[r.Term] = r
			term := dag.Term(r.Term)
			rows = append(rows, report.Row{
				TermID:       term.StringID,
				Name:         term.Name,
				Namespace:    term.Namespace.String(),
				LogOddsRatio: r.LogOddsRatio,
				AdjPValue:    r.AdjPValue,
				StudyWith:    r.Table.A,
				StudyWithout: r.Table.B,
				BgWith:       r.Table.A + r.Table.C,
				BgWithout:    r.Table.D,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AdjPValue != rows[j].AdjPValue {
			return rows[i].AdjPValue < rows[j].AdjPValue
		}
		return rows[i].TermID < rows[j].TermID
	})

	speciesName := taxon
	return &TaxonResult{
		TaxonID:     taxon,
		SpeciesName: speciesName,
		Rows:        rows,
		Unresolved:  studySet.Unresolved(),
		perTerm:     perTerm,
	}, warning, nil
}

// propagatedCounts runs the configured propagation method, memoizing
// per (taxon, namespace, method, background file size and modtime) in
// the in-memory LRU first and, when cfg.CacheDir is set, the on-disk
// cache second, so a fresh process against the same cache_dir and an
// unchanged background file does not recompute it.
func propagatedCounts(cache *lru.Cache[string, []propagate.Counts], disk *diskCache, method propagate.Method, dag *ontology.GODag, u *assoc.Universe, study bitset.Set, ns ontology.Namespace, test enrich.Test, cfg *config.Config, taxon string) []propagate.Counts {
	key := fmt.Sprintf("%s|%d|%d", taxon, method, ns)
	if info, err := os.Stat(filepath.Join(cfg.BackgroundPath, taxon+"_background.txt")); err == nil {
		key = fmt.Sprintf("%s|%d|%d", key, info.Size(), info.ModTime().UnixNano())
	}
	if cache != nil {
		if v, ok := cache.Get(key); ok {
			return v
		}
	}
	if v, ok := disk.Get(key); ok {
		if cache != nil {
			cache.Add(key, v)
		}
		return v
	}
	counts := propagate.Run(method, dag, u, study, ns, propagate.Options{Test: test, ElimAlpha: cfg.Alpha})
	if cache != nil {
		cache.Add(key, counts)
	}
	disk.Put(key, counts)
	return counts
}

// runGroups pools per-taxon results into phylogenetic meta-analyses at
// the configured taxonomic rank (spec.md §4.D). A group is skipped
// entirely if fewer than 2 eligible taxa remain after per-taxon
// failures (spec.md §7).
func runGroups(cfg *config.Config, dag *ontology.GODag, taxa []TaxonResult) ([]GroupResult, []string, error) {
	lineage, err := loadLineage(cfg)
	if err != nil {
		return nil, nil, err
	}
	vcvTaxa, vcvValues, err := loadVCV(cfg)
	if err != nil {
		return nil, nil, err
	}
	vcv, err := meta.NewVCV(vcvTaxa, vcvValues)
	if err != nil {
		return nil, nil, err
	}
	correction, ok := enrich.ParseCorrection(cfg.CorrectionMethod)
	if !ok {
		return nil, nil, xerrors.New(xerrors.ConfigError, "correction_method", fmt.Errorf("unknown value %q", cfg.CorrectionMethod))
	}

	byTaxon := make(map[string]*TaxonResult, len(taxa))
	for i := range taxa {
		byTaxon[taxa[i].TaxonID] = &taxa[i]
	}

	membersOf := make(map[string][]string)
	for _, l := range lineage {
		rank, ok := l.Rank(cfg.GroupResults)
		if !ok || rank == "" {
			continue
		}
		membersOf[rank] = append(membersOf[rank], l.TaxonID)
	}

	groupNames := make([]string, 0, len(membersOf))
	for g := range membersOf {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)

	var merr *multierror.Error
	var out []GroupResult
	var warnings []string

	for _, group := range groupNames {
		members := membersOf[group]
		sort.Strings(members)

		eligibleTaxa := make([]string, 0, len(members))
		for _, taxon := range members {
			if _, ok := byTaxon[taxon]; ok {
				eligibleTaxa = append(eligibleTaxa, taxon)
			}
		}
		if len(eligibleTaxa) < 2 {
			warnings = append(warnings, fmt.Sprintf("group %s: fewer than 2 eligible taxa, skipped", group))
			continue
		}

		terms := distinctTerms(byTaxon, eligibleTaxa)
		var pooled []report.CombinedRow
		var raw []float64
		for _, term := range terms {
			var contributors []string
			var y, v []float64
			for _, taxon := range eligibleTaxa {
				r, ok := byTaxon[taxon].perTerm[term]
				if !ok {
					continue
				}
				contributors = append(contributors, taxon)
				y = append(y, r.LogOddsRatio)
				v = append(v, r.Table.LogOddsVariance())
			}
			if !meta.Eligible(len(contributors), len(eligibleTaxa), cfg.LineagePercentage) {
				continue
			}

			sub, err := vcv.Submatrix(contributors)
			if err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			fit, err := meta.Fit(y, v, sub, cfg.PMTolerance, cfg.PMIterations)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("group %s term %d: %v", group, term, err))
				continue
			}
			termName := dag.Term(term).StringID
			seed := meta.SeedFor(group, termName)
			if cfg.Seed != 0 {
				seed = meta.SeedFor(fmt.Sprintf("seed:%d", cfg.Seed), "")
			}
			pval, err := meta.PermutationPValue(fit, y, v, sub, seed, meta.PermuteOptions{
				Permutations: cfg.Permutations,
				Tolerance:    cfg.PMTolerance,
				MaxIter:      cfg.PMIterations,
				Blocks:       4,
			})
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("group %s term %d: %v", group, term, err))
				continue
			}

			raw = append(raw, pval)
			pooled = append(pooled, report.CombinedRow{
				Row: report.Row{
					TermID:       termName,
					Name:         dag.Term(term).Name,
					Namespace:    dag.Term(term).Namespace.String(),
					LogOddsRatio: fit.Beta,
				},
				Group:             group,
				Tau2:              fit.Tau2,
				SpeciesPercentage: float64(len(contributors)) / float64(len(eligibleTaxa)),
			})
		}

		// Apply the chosen multiple-testing correction across all of the
		// group's pooled terms, then drop terms whose adjusted p-value
		// exceeds alpha (spec.md §4.D / §4.C).
		adj := correction.Adjust(raw)
		var rows []report.CombinedRow
		for i, r := range pooled {
			if cfg.Alpha > 0 && adj[i] > cfg.Alpha {
				continue
			}
			r.AdjPValue = adj[i]
			rows = append(rows, r)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].AdjPValue != rows[j].AdjPValue {
				return rows[i].AdjPValue < rows[j].AdjPValue
			}
			return rows[i].TermID < rows[j].TermID
		})
		out = append(out, GroupResult{Group: group, Rows: rows})
	}

	return out, warnings, merr.ErrorOrNil()
}

// distinctTerms returns the sorted union of terms present in any of the
// given taxa's results.
func distinctTerms(byTaxon map[string]*TaxonResult, taxa []string) []ontology.ID {
	seen := make(map[ontology.ID]bool)
	for _, taxon := range taxa {
		for term := range byTaxon[taxon].perTerm {
			seen[term] = true
		}
	}
	out := make([]ontology.ID, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// applySpeciesNames fills in each taxon result's SpeciesName from the
// lineage table, when one was configured; taxa absent from the lineage
// table keep their taxon ID as the species name.
func applySpeciesNames(cfg *config.Config, taxa []TaxonResult) {
	lineage, err := loadLineage(cfg)
	if err != nil {
		return
	}
	names := make(map[string]string, len(lineage))
	for _, l := range lineage {
		names[l.TaxonID] = l.SpeciesName
	}
	for i := range taxa {
		if name, ok := names[taxa[i].TaxonID]; ok && name != "" {
			taxa[i].SpeciesName = name
		}
	}
}

func loadLineage(cfg *config.Config) ([]ioformats.Lineage, error) {
	f, err := os.Open(cfg.LineagePath)
	if err != nil {
		return nil, xerrors.New(xerrors.InputMissing, "lineage", err)
	}
	defer f.Close()
	rows, err := ioformats.ParseLineage(f)
	if err != nil {
		return nil, xerrors.New(xerrors.ParseError, "lineage", err)
	}
	return rows, nil
}

func loadVCV(cfg *config.Config) ([]string, [][]float64, error) {
	f, err := os.Open(cfg.VCVMatrix)
	if err != nil {
		return nil, nil, xerrors.New(xerrors.InputMissing, "vcv_matrix", err)
	}
	defer f.Close()
	taxa, values, err := ioformats.ParseVCV(f)
	if err != nil {
		return nil, nil, xerrors.New(xerrors.ParseError, "vcv_matrix", err)
	}
	return taxa, values, nil
}
