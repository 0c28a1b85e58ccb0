package ioformats

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// Lineage is one taxon's row from the lineage table (spec.md §6
// "Lineage input").
type Lineage struct {
	TaxonID      string
	SpeciesName  string
	Genus        string
	Family       string
	Order        string
	Class        string
	Phylum       string
	Kingdom      string
	Superkingdom string
}

// rankOf returns the rank field of l named by column, used by the
// pipeline to group taxa at a configured taxonomic rank.
func (l Lineage) rankOf(column string) string {
	switch column {
	case "Genus":
		return l.Genus
	case "Family":
		return l.Family
	case "Order":
		return l.Order
	case "Class":
		return l.Class
	case "Phylum":
		return l.Phylum
	case "Kingdom":
		return l.Kingdom
	case "Superkingdom":
		return l.Superkingdom
	default:
		return ""
	}
}

// Rank returns the value of the named taxonomic rank column, or ok=false
// for an unknown column name.
func (l Lineage) Rank(column string) (string, bool) {
	switch column {
	case "Genus", "Family", "Order", "Class", "Phylum", "Kingdom", "Superkingdom":
		return l.rankOf(column), true
	default:
		return "", false
	}
}

// ParseLineage reads the lineage TSV: header row, columns (taxon_id,
// species_name, Genus, Family, Order, Class, Phylum, Kingdom,
// Superkingdom).
func ParseLineage(r io.Reader) ([]Lineage, error) {
	c := csv.NewReader(r)
	c.Comma = '\t'
	c.FieldsPerRecord = -1

	header, err := c.Read()
	if err != nil {
		return nil, errors.Wrap(err, "lineage TSV: reading header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	required := []string{"taxon_id", "species_name", "Genus", "Family", "Order", "Class", "Phylum", "Kingdom", "Superkingdom"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("lineage TSV: missing column %q", name)
		}
	}

	var out []Lineage
	for {
		row, err := c.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "lineage TSV: reading row")
		}
		out = append(out, Lineage{
			TaxonID:      row[col["taxon_id"]],
			SpeciesName:  row[col["species_name"]],
			Genus:        row[col["Genus"]],
			Family:       row[col["Family"]],
			Order:        row[col["Order"]],
			Class:        row[col["Class"]],
			Phylum:       row[col["Phylum"]],
			Kingdom:      row[col["Kingdom"]],
			Superkingdom: row[col["Superkingdom"]],
		})
	}
}
