package models

import "math"

// Header is the fixed 48-byte preamble of a binary dose-matrix file.
// Field order and widths match the on-disk layout so the struct can be
// read and written directly with encoding/binary.
type Header struct {
	// TotalHistories is the number of simulated primary particles
	TotalHistories float64

	// Weight is the per-field weighting factor
	Weight float32

	// NX, NY, NZ are the voxel counts along each axis
	NX, NY, NZ int32

	// OriginX, OriginY, OriginZ locate the center of voxel (0,0,0)
	OriginX, OriginY, OriginZ float32

	// SpacingX, SpacingY, SpacingZ are the voxel sizes along each axis
	SpacingX, SpacingY, SpacingZ float32
}

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 8 + 4 + 3*4 + 3*4 + 3*4

// VoxelCount returns nx*ny*nz, or 0 if any dimension is not positive or
// the product overflows.
func (h Header) VoxelCount() int {
	if h.NX <= 0 || h.NY <= 0 || h.NZ <= 0 {
		return 0
	}
	n := int64(h.NX) * int64(h.NY)
	if n > math.MaxInt64/int64(h.NZ) {
		return 0
	}
	return int(n * int64(h.NZ))
}
