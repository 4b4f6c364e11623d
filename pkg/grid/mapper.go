// Package grid maps physical positions onto regular voxel lattices: the
// sampler uses it to pick interpolation cells and plane lookups use it to
// find the nearest voxel.
package grid

import "math"

// VoxelFloat returns the fractional voxel coordinate of p on an axis whose
// first voxel sits at origin and whose voxels are spacing apart.
func VoxelFloat(p, origin, spacing float64) float64 {
	return (p - origin) / spacing
}

// Locate splits the voxel coordinate of p into its integer cell and the
// fractional remainder in [0,1). Non-finite input yields index 0 and a
// non-finite frac, leaving validation to the caller.
func Locate(p, origin, spacing float64) (index int, frac float64) {
	return split(VoxelFloat(p, origin, spacing))
}

func split(v float64) (int, float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, v
	}
	fl := math.Floor(v)
	return int(fl), v - fl
}

// ClampCell picks the interpolation cell for voxel coordinate v on an axis
// with n >= 2 voxels. The cell index is kept in [0, n-2] so that index+1 is
// always valid. Coordinates before the first voxel return (0, 0) and
// coordinates past the last return (n-2, 1): sampling outside the grid
// repeats the boundary value instead of extrapolating.
func ClampCell(v float64, n int) (index int, frac float64) {
	if math.IsNaN(v) {
		return 0, v
	}
	last := float64(n - 1)
	switch {
	case v <= 0:
		return 0, 0
	case v >= last:
		return n - 2, 1
	}
	i, f := split(v)
	if i > n-2 {
		// only reachable through rounding right below last
		return n - 2, v - float64(n-2)
	}
	return i, f
}
