// Package report writes the per-taxon and combined-results TSV files of
// spec.md §6, in the teacher's manual-TSV-writer idiom (explicit header
// join, one record per row, tab-separated via encoding/csv).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row is one term's enrichment result, per spec.md §6 "Output".
type Row struct {
	TermID        string
	Name          string
	Namespace     string
	LogOddsRatio  float64
	AdjPValue     float64
	StudyWith     float64
	StudyWithout  float64
	BgWith        float64
	BgWithout     float64
}

var header = []string{
	"GO Term ID", "Name", "Namespace", "log(Odds Ratio)", "Statistical significance",
	"study_with", "study_without", "bg_with", "bg_without",
}

func (r Row) record() []string {
	return []string{
		r.TermID,
		r.Name,
		r.Namespace,
		fmt.Sprintf("%.3f", r.LogOddsRatio),
		fmt.Sprintf("%.5e", r.AdjPValue),
		fmt.Sprintf("%v", r.StudyWith),
		fmt.Sprintf("%v", r.StudyWithout),
		fmt.Sprintf("%v", r.BgWith),
		fmt.Sprintf("%v", r.BgWithout),
	}
}

// WriteResults writes a per-taxon GOEA results TSV.
func WriteResults(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CombinedRow is one pooled term/group result in the combined output,
// additionally carrying the meta-analysis heterogeneity and the
// fraction of the group's species that contributed to the pool.
type CombinedRow struct {
	Row
	Group             string
	Tau2              float64
	SpeciesPercentage float64
}

var combinedHeader = append(append([]string{}, header...), "group", "tau2", "species_percentage")

func (r CombinedRow) record() []string {
	return append(r.Row.record(), r.Group, fmt.Sprintf("%.4f", r.Tau2), fmt.Sprintf("%.3f", r.SpeciesPercentage))
}

// WriteCombined writes the combined-results TSV across taxonomic
// groups.
func WriteCombined(w io.Writer, rows []CombinedRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(combinedHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultFilename returns the per-taxon output filename for a species
// (spec.md §6 "{species_name}_GOEA_results.txt").
func ResultFilename(speciesName string) string {
	return speciesName + "_GOEA_results.txt"
}
