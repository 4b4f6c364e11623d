package dosematrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/grid"
	"doseprofiler/pkg/planar"
)

// ExtractPlane returns the voxel plane orthogonal to axis at voxel index
// position as a planar grid. The first remaining axis (in x, y, z order)
// runs along the columns and the second along the rows, so a Z plane has
// x columns and y rows.
func (v *DoseVolume) ExtractPlane(axis models.Axis, position int, ch models.Channel) (*planar.Grid, error) {
	if !axis.Valid() {
		return nil, fmt.Errorf("unknown axis %v: %w", axis, models.ErrInvalidArgument)
	}
	arr, err := v.channel(ch)
	if err != nil {
		return nil, err
	}
	n, _, _ := v.axisInfo(axis)
	if position < 0 || position >= n {
		return nil, fmt.Errorf("plane %d outside %d voxels along %v: %w", position, n, axis, models.ErrIndexOutOfRange)
	}

	colAxis, rowAxis := axis.Others()
	nc, oc, sc := v.axisInfo(colAxis)
	nr, or, sr := v.axisInfo(rowAxis)

	cols := make([]float64, nc)
	for i := range cols {
		cols[i] = oc + float64(i)*sc
	}
	rows := make([]float64, nr)
	for i := range rows {
		rows[i] = or + float64(i)*sr
	}

	values := mat.NewDense(nr, nc, nil)
	idx := [3]int{}
	idx[axis] = position
	for r := 0; r < nr; r++ {
		idx[rowAxis] = r
		for c := 0; c < nc; c++ {
			idx[colAxis] = c
			values.Set(r, c, arr[v.Flatten(idx[0], idx[1], idx[2])])
		}
	}
	return planar.New(rows, cols, values)
}

// NearestIndex returns the index of the voxel whose center is closest to the
// physical coordinate position along axis.
func (v *DoseVolume) NearestIndex(axis models.Axis, position float64) (int, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("unknown axis %v: %w", axis, models.ErrInvalidArgument)
	}
	n, origin, spacing := v.axisInfo(axis)
	i, frac := grid.Locate(position, origin, spacing)
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		return 0, fmt.Errorf("position %v on %v axis: %w", position, axis, models.ErrInvalidArgument)
	}
	if frac >= 0.5 {
		i++
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("position %v outside %d voxels along %v: %w", position, n, axis, models.ErrIndexOutOfRange)
	}
	return i, nil
}
