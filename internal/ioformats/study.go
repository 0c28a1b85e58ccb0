// Package ioformats reads the CSV/TSV/FASTA-like input formats of
// spec.md §6: study sets, per-taxon background associations, lineage
// tables and VCV matrices.
package ioformats

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ParseStudyCSV reads a study set where the header row is taxon IDs and
// each column lists that taxon's study proteins, one per row; columns
// may be ragged and cells may be empty (spec.md §6 "Study input" (i)).
func ParseStudyCSV(r io.Reader) (map[string][]string, error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true

	header, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("study CSV: empty file")
		}
		return nil, errors.Wrap(err, "study CSV: reading header")
	}

	out := make(map[string][]string, len(header))
	for _, taxon := range header {
		out[taxon] = nil
	}

	for {
		row, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "study CSV: reading row")
		}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			out[header[i]] = append(out[header[i]], cell)
		}
	}
	return out, nil
}

// ParseStudyFASTA reads a single FASTA-like study file: its first line
// is ">" followed by a taxon ID, and subsequent non-empty lines each
// list one protein ID (spec.md §6 "Study input" (ii)).
func ParseStudyFASTA(r io.Reader) (taxon string, proteins []string, err error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return "", nil, errors.New("study FASTA: empty file")
	}
	header := strings.TrimSpace(sc.Text())
	if !strings.HasPrefix(header, ">") {
		return "", nil, errors.Errorf("study FASTA: expected '>taxon_id' header, got %q", header)
	}
	taxon = strings.TrimSpace(strings.TrimPrefix(header, ">"))

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		proteins = append(proteins, line)
	}
	if err := sc.Err(); err != nil {
		return "", nil, errors.Wrap(err, "study FASTA: scanning")
	}
	return taxon, proteins, nil
}

// ParseStudyDir reads every .fa/.fasta file in dir as a FASTA-like
// study file and merges the results by taxon ID.
func ParseStudyDir(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "study dir: reading %s", dir)
	}
	out := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".fa" && ext != ".fasta" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "study dir: opening %s", path)
		}
		taxon, proteins, err := ParseStudyFASTA(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "study dir: parsing %s", path)
		}
		out[taxon] = append(out[taxon], proteins...)
	}
	return out, nil
}
