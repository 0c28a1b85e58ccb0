// Package meta implements the phylogenetic meta-analysis engine of
// spec.md §4.D: a Paule-Mandel random-effects model over a VCV-derived
// covariance structure, with permutation-based p-values.
package meta

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/go-taxago/taxago/internal/xerrors"
)

// VCV is a symmetric positive semi-definite variance-covariance matrix
// indexed by taxon ID, per spec.md §3.
type VCV struct {
	taxa  []string
	index map[string]int
	m     *mat.SymDense
}

// NewVCV builds a VCV from a dense taxon-by-taxon value grid, verifying
// symmetry (spec.md §7 "VCV non-symmetry" is a non-zero exit condition).
func NewVCV(taxa []string, values [][]float64) (*VCV, error) {
	n := len(taxa)
	for _, row := range values {
		if len(row) != n {
			return nil, xerrors.New(xerrors.InconsistentInput, "vcv_matrix", fmt.Errorf("row length %d does not match %d taxa", len(row), n))
		}
	}
	const eps = 1e-6
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(values[i][j]-values[j][i]) > eps {
				return nil, xerrors.New(xerrors.InconsistentInput, "vcv_matrix", fmt.Errorf("entry (%s,%s)=%g differs from (%s,%s)=%g", taxa[i], taxa[j], values[i][j], taxa[j], taxa[i], values[j][i]))
			}
		}
	}

	index := make(map[string]int, n)
	m := mat.NewSymDense(n, nil)
	for i := range taxa {
		index[taxa[i]] = i
		for j := i; j < n; j++ {
			m.SetSym(i, j, values[i][j])
		}
	}
	return &VCV{taxa: taxa, index: index, m: m}, nil
}

// Submatrix extracts the rows/columns for the given taxa, in the given
// order, scaled to correlation form so the diagonal is 1 (spec.md §4.D
// "V... scaled so diag(V) = 1").
func (v *VCV) Submatrix(taxa []string) (*mat.SymDense, error) {
	n := len(taxa)
	idx := make([]int, n)
	for i, t := range taxa {
		id, ok := v.index[t]
		if !ok {
			return nil, xerrors.New(xerrors.InconsistentInput, "vcv_matrix", fmt.Errorf("taxon %s absent from VCV", t))
		}
		idx[i] = id
	}
	sub := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sub.SetSym(i, j, v.m.At(idx[i], idx[j]))
		}
	}
	return correlationForm(sub), nil
}

func correlationForm(m *mat.SymDense) *mat.SymDense {
	n, _ := m.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := math.Sqrt(m.At(i, i) * m.At(j, j))
			v := 1.0
			if d > 0 {
				v = m.At(i, j) / d
			}
			out.SetSym(i, j, v)
		}
	}
	return out
}
