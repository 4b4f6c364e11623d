package dosematrix

import (
	"fmt"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/grid"
)

// SampleAt returns the trilinearly interpolated value of channel ch at the
// physical position p.
//
// Positions outside the grid are clamped to its boundary on each axis, so
// the result there equals the value on the nearest face, edge or corner.
// Every axis needs at least two voxels.
func (v *DoseVolume) SampleAt(p models.Point, ch models.Channel) (float64, error) {
	arr, err := v.channel(ch)
	if err != nil {
		return 0, err
	}
	if v.nx < 2 || v.ny < 2 || v.nz < 2 {
		return 0, fmt.Errorf("interpolation needs 2 voxels per axis, grid is %dx%dx%d: %w",
			v.nx, v.ny, v.nz, models.ErrIndexOutOfRange)
	}

	ix, fx := grid.ClampCell(grid.VoxelFloat(p.X, v.origin[0], v.spacing[0]), v.nx)
	iy, fy := grid.ClampCell(grid.VoxelFloat(p.Y, v.origin[1], v.spacing[1]), v.ny)
	iz, fz := grid.ClampCell(grid.VoxelFloat(p.Z, v.origin[2], v.spacing[2]), v.nz)

	return v.trilinear(arr, ix, iy, iz, fx, fy, fz), nil
}

// ValueAt is SampleAt with the position given as separate coordinates.
func (v *DoseVolume) ValueAt(x, y, z float64, ch models.Channel) (float64, error) {
	return v.SampleAt(models.Point{X: x, Y: y, Z: z}, ch)
}

// trilinear blends the 8 corners of cell (ix,iy,iz): along x first, then y,
// then z. Indices must already be clamped to [0, n-2].
func (v *DoseVolume) trilinear(arr []float64, ix, iy, iz int, fx, fy, fz float64) float64 {
	sy := v.nx
	sz := v.nx * v.ny
	i000 := v.Flatten(ix, iy, iz)

	c00 := lerp(arr[i000], arr[i000+1], fx)
	c10 := lerp(arr[i000+sy], arr[i000+sy+1], fx)
	c01 := lerp(arr[i000+sz], arr[i000+sz+1], fx)
	c11 := lerp(arr[i000+sy+sz], arr[i000+sy+sz+1], fx)

	c0 := lerp(c00, c10, fy)
	c1 := lerp(c01, c11, fy)

	return lerp(c0, c1, fz)
}

func lerp(a, b, f float64) float64 {
	return a*(1-f) + b*f
}
