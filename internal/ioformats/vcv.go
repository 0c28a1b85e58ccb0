package ioformats

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ParseVCV reads a VCV matrix CSV: the first column, headed "taxa",
// holds taxon IDs, and the remaining columns, headed by taxon ID, hold
// the numeric covariance entries (spec.md §6 "VCV input").
func ParseVCV(r io.Reader) (taxa []string, values [][]float64, err error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1

	header, err := c.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "VCV CSV: reading header")
	}
	if len(header) == 0 || header[0] != "taxa" {
		return nil, nil, errors.New(`VCV CSV: first column must be named "taxa"`)
	}
	columnTaxa := header[1:]

	for {
		row, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "VCV CSV: reading row")
		}
		if len(row) != len(header) {
			return nil, nil, errors.Errorf("VCV CSV: row for taxon %s has %d values, want %d", row[0], len(row)-1, len(header)-1)
		}
		taxa = append(taxa, row[0])
		vals := make([]float64, len(columnTaxa))
		for i, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "VCV CSV: parsing value at taxon %s, column %s", row[0], columnTaxa[i])
			}
			vals[i] = v
		}
		values = append(values, vals)
	}

	if len(taxa) != len(columnTaxa) {
		return nil, nil, errors.Errorf("VCV CSV: %d row taxa but %d column taxa", len(taxa), len(columnTaxa))
	}
	for i, t := range taxa {
		if t != columnTaxa[i] {
			return nil, nil, errors.Errorf("VCV CSV: row taxon %s does not match column taxon %s at position %d", t, columnTaxa[i], i)
		}
	}
	return taxa, values, nil
}
