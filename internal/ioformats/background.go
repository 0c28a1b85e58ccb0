package ioformats

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/go-taxago/taxago/internal/assoc"
)

// ParseBackground reads a per-taxon background TSV of (protein_id,
// GO_term_id, evidence_code) triples, per spec.md §6 "Background
// input".
func ParseBackground(r io.Reader) ([]assoc.Record, error) {
	c := csv.NewReader(r)
	c.Comma = '\t'
	c.FieldsPerRecord = 3
	c.Comment = '#'

	var records []assoc.Record
	for {
		row, err := c.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "background TSV")
		}
		records = append(records, assoc.Record{
			Protein:  row[0],
			Term:     row[1],
			Evidence: row[2],
		})
	}
}
