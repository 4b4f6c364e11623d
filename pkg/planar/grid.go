// Package planar reads two-dimensional dose planes exported by treatment
// planning systems as delimited text, and extracts the central cross-plane
// and in-plane profiles from them.
//
// The text layout is a table whose first row holds the column coordinates
// (the first cell is ignored) and whose first column holds the row
// coordinates:
//
//	      , -1.0, 0.0, 1.0,
//	 -1.0 ,  10 ,  20,  10,
//	  0.0 ,  20 ,  40,  20,
package planar

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/profile"
)

// Grid is a planar dose distribution. Cell (r, c) of the value matrix is the
// dose at (RowCoordinates()[r], ColumnCoordinates()[c]).
type Grid struct {
	rows   []float64
	cols   []float64
	values *mat.Dense
}

// New builds a grid from its coordinate vectors and an R x C value matrix.
// The inputs are copied.
func New(rows, cols []float64, values mat.Matrix) (*Grid, error) {
	r, c := values.Dims()
	if r != len(rows) || c != len(cols) {
		return nil, fmt.Errorf("%dx%d values for %d rows and %d columns: %w",
			r, c, len(rows), len(cols), models.ErrInvalidArgument)
	}
	g := &Grid{
		rows:   make([]float64, r),
		cols:   make([]float64, c),
		values: mat.DenseCopyOf(values),
	}
	copy(g.rows, rows)
	copy(g.cols, cols)
	return g, nil
}

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) {
	return len(g.rows), len(g.cols)
}

// RowCoordinates returns a copy of the row coordinate vector.
func (g *Grid) RowCoordinates() []float64 {
	out := make([]float64, len(g.rows))
	copy(out, g.rows)
	return out
}

// ColumnCoordinates returns a copy of the column coordinate vector.
func (g *Grid) ColumnCoordinates() []float64 {
	out := make([]float64, len(g.cols))
	copy(out, g.cols)
	return out
}

// Values returns a copy of the value matrix.
func (g *Grid) Values() *mat.Dense {
	return mat.DenseCopyOf(g.values)
}

// At returns the value in row r, column c.
func (g *Grid) At(r, c int) (float64, error) {
	if r < 0 || r >= len(g.rows) || c < 0 || c >= len(g.cols) {
		return 0, fmt.Errorf("cell (%d,%d) outside %dx%d grid: %w",
			r, c, len(g.rows), len(g.cols), models.ErrIndexOutOfRange)
	}
	return g.values.At(r, c), nil
}

// ColumnProfile returns the values of column c against the row coordinates.
func (g *Grid) ColumnProfile(c int) (*profile.Profile, error) {
	if c < 0 || c >= len(g.cols) {
		return nil, fmt.Errorf("column %d outside %d columns: %w", c, len(g.cols), models.ErrIndexOutOfRange)
	}
	m := mat.NewDense(len(g.rows), 2, nil)
	m.SetCol(0, g.rows)
	m.SetCol(1, mat.Col(nil, c, g.values))
	return profile.FromMatrix(m)
}

// RowProfile returns the values of row r against the column coordinates.
func (g *Grid) RowProfile(r int) (*profile.Profile, error) {
	if r < 0 || r >= len(g.rows) {
		return nil, fmt.Errorf("row %d outside %d rows: %w", r, len(g.rows), models.ErrIndexOutOfRange)
	}
	m := mat.NewDense(len(g.cols), 2, nil)
	m.SetCol(0, g.cols)
	m.SetCol(1, mat.Row(nil, r, g.values))
	return profile.FromMatrix(m)
}

// CentralColumnProfile returns the profile down column C/2. With an even
// column count the column just past the midpoint is used, the same
// truncated-half rule as CentralRowProfile.
func (g *Grid) CentralColumnProfile() (*profile.Profile, error) {
	return g.ColumnProfile(len(g.cols) / 2)
}

// CentralRowProfile returns the profile across row R/2.
func (g *Grid) CentralRowProfile() (*profile.Profile, error) {
	return g.RowProfile(len(g.rows) / 2)
}
