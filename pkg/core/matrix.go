package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major feature matrix. Columns optionally names each column.
type Matrix struct {
	R, C    int
	Data    []float64
	Columns []string
}

// NewMatrix Allocates Zero Matrix
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromSlice creates a Matrix from a nested slice (copies data).
func FromSlice(a [][]float64) (*Matrix, error) {
	r := len(a)
	if r == 0 {
		return &Matrix{}, nil
	}

	c := len(a[0])
	m := NewMatrix(r, c)
	k := 0
	for i := 0; i < r; i++ {
		if len(a[i]) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(a[i]), c)
		}
		for j := 0; j < c; j++ {
			m.Data[k] = a[i][j]
			k++
		}
	}
	return m, nil
}

// At returns element (i, j)
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// Set sets element (i, j)
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.C+j] = v }

// Clone Deep Copies of Matrix
func (m *Matrix) Clone() *Matrix {
	n := &Matrix{R: m.R, C: m.C, Data: make([]float64, len(m.Data))}
	copy(n.Data, m.Data)
	if m.Columns != nil {
		n.Columns = append([]string(nil), m.Columns...)
	}
	return n
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	v := make([]float64, m.C)
	copy(v, m.Data[i*m.C:(i+1)*m.C])
	return v
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	v := make([]float64, m.R)
	for i := 0; i < m.R; i++ {
		v[i] = m.Data[i*m.C+j]
	}
	return v
}

// Rows returns the matrix as a nested slice. Each row is a fresh copy.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.R)
	for i := range m.R {
		out[i] = m.Row(i)
	}
	return out
}

// AppendColumn returns a new matrix with col added as the last column.
func (m *Matrix) AppendColumn(name string, col []float64) (*Matrix, error) {
	if len(col) != m.R {
		return nil, fmt.Errorf("column %q has %d rows, matrix has %d", name, len(col), m.R)
	}
	out := NewMatrix(m.R, m.C+1)
	for i := 0; i < m.R; i++ {
		copy(out.Data[i*out.C:], m.Data[i*m.C:(i+1)*m.C])
		out.Data[i*out.C+m.C] = col[i]
	}
	if m.Columns != nil || name != "" {
		out.Columns = make([]string, 0, out.C)
		if m.Columns != nil {
			out.Columns = append(out.Columns, m.Columns...)
		} else {
			for j := range m.C {
				out.Columns = append(out.Columns, fmt.Sprintf("x%d", j))
			}
		}
		out.Columns = append(out.Columns, name)
	}
	return out, nil
}

// SplitXY separates the last column (target) from the rest (features).
func (m *Matrix) SplitXY() (X [][]float64, y []float64, err error) {
	if m.C < 2 {
		return nil, nil, errors.New("matrix needs at least one feature column and a target column")
	}
	X = make([][]float64, m.R)
	y = make([]float64, m.R)
	for i := 0; i < m.R; i++ {
		row := make([]float64, m.C-1)
		copy(row, m.Data[i*m.C:i*m.C+m.C-1])
		X[i] = row
		y[i] = m.Data[i*m.C+m.C-1]
	}
	return X, y, nil
}

// Dense returns a gonum view sharing the underlying data.
func (m *Matrix) Dense() *mat.Dense {
	if m.R == 0 || m.C == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(m.R, m.C, m.Data)
}
