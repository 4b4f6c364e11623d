// Package dosematrix holds three-dimensional dose distributions produced by
// Monte-Carlo simulations, reads and writes them in the binary dose-matrix
// format, and samples them at arbitrary physical positions.
//
// Voxel data is kept in flat slices in x-fastest order:
//
//	index = ix + iy*nx + iz*nx*ny
//
// A DoseVolume is never modified after construction, so any number of
// goroutines may sample the same volume concurrently.
package dosematrix

import (
	"fmt"

	"doseprofiler/internal/models"
)

// DoseVolume is a regular 3D grid of dose values with an optional parallel
// grid of statistical uncertainties.
type DoseVolume struct {
	// nx, ny, nz are the voxel counts along each axis
	nx, ny, nz int

	// origin is the physical position of voxel (0,0,0)
	origin [3]float64

	// spacing is the physical voxel size along each axis
	spacing [3]float64

	// totalHistories is the simulated particle count (metadata only)
	totalHistories float64

	// weight is the per-field weighting factor (metadata only)
	weight float64

	// dose and unc hold nx*ny*nz values each; unc is nil when the volume
	// carries no uncertainty
	dose []float64
	unc  []float64
}

// New returns the empty volume: a single zero-dose voxel of unit size at the
// origin, with no uncertainty.
func New() *DoseVolume {
	return &DoseVolume{
		nx: 1, ny: 1, nz: 1,
		spacing:        [3]float64{1, 1, 1},
		totalHistories: 1,
		weight:         1,
		dose:           make([]float64, 1),
	}
}

// NewVolume builds a volume from a header and its voxel arrays. unc may be
// nil. Both slices are copied.
func NewVolume(h models.Header, dose, unc []float64) (*DoseVolume, error) {
	n := h.VoxelCount()
	if n == 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%dx%d: %w", h.NX, h.NY, h.NZ, models.ErrInvalidArgument)
	}
	if len(dose) != n {
		return nil, fmt.Errorf("expected %d dose values, got %d: %w", n, len(dose), models.ErrInvalidArgument)
	}
	if unc != nil && len(unc) != n {
		return nil, fmt.Errorf("expected %d uncertainty values, got %d: %w", n, len(unc), models.ErrInvalidArgument)
	}

	v := fromHeader(h)
	v.dose = make([]float64, n)
	copy(v.dose, dose)
	if unc != nil {
		v.unc = make([]float64, n)
		copy(v.unc, unc)
	}
	return v, nil
}

func fromHeader(h models.Header) *DoseVolume {
	return &DoseVolume{
		nx:             int(h.NX),
		ny:             int(h.NY),
		nz:             int(h.NZ),
		origin:         [3]float64{float64(h.OriginX), float64(h.OriginY), float64(h.OriginZ)},
		spacing:        [3]float64{float64(h.SpacingX), float64(h.SpacingY), float64(h.SpacingZ)},
		totalHistories: h.TotalHistories,
		weight:         float64(h.Weight),
	}
}

// Header returns the file header describing v.
func (v *DoseVolume) Header() models.Header {
	return models.Header{
		TotalHistories: v.totalHistories,
		Weight:         float32(v.weight),
		NX:             int32(v.nx),
		NY:             int32(v.ny),
		NZ:             int32(v.nz),
		OriginX:        float32(v.origin[0]),
		OriginY:        float32(v.origin[1]),
		OriginZ:        float32(v.origin[2]),
		SpacingX:       float32(v.spacing[0]),
		SpacingY:       float32(v.spacing[1]),
		SpacingZ:       float32(v.spacing[2]),
	}
}

// Dims returns the voxel counts along x, y and z.
func (v *DoseVolume) Dims() (nx, ny, nz int) {
	return v.nx, v.ny, v.nz
}

// Len returns the total number of voxels.
func (v *DoseVolume) Len() int {
	return len(v.dose)
}

// Origin returns the physical position of voxel (0,0,0).
func (v *DoseVolume) Origin() models.Point {
	return models.Point{X: v.origin[0], Y: v.origin[1], Z: v.origin[2]}
}

// Spacing returns the voxel size along each axis.
func (v *DoseVolume) Spacing() models.Point {
	return models.Point{X: v.spacing[0], Y: v.spacing[1], Z: v.spacing[2]}
}

func (v *DoseVolume) TotalHistories() float64 { return v.totalHistories }
func (v *DoseVolume) Weight() float64         { return v.weight }
func (v *DoseVolume) HasUncertainty() bool    { return v.unc != nil }

// DoseValues returns a copy of the flat dose array.
func (v *DoseVolume) DoseValues() []float64 {
	out := make([]float64, len(v.dose))
	copy(out, v.dose)
	return out
}

// UncertaintyValues returns a copy of the flat uncertainty array, or nil.
func (v *DoseVolume) UncertaintyValues() []float64 {
	if v.unc == nil {
		return nil
	}
	out := make([]float64, len(v.unc))
	copy(out, v.unc)
	return out
}

// axisInfo returns voxel count, origin and spacing along a.
func (v *DoseVolume) axisInfo(a models.Axis) (n int, origin, spacing float64) {
	switch a {
	case models.AxisX:
		return v.nx, v.origin[0], v.spacing[0]
	case models.AxisY:
		return v.ny, v.origin[1], v.spacing[1]
	default:
		return v.nz, v.origin[2], v.spacing[2]
	}
}

// Flatten converts voxel indices to a flat array index. It does not check
// bounds.
func (v *DoseVolume) Flatten(ix, iy, iz int) int {
	return ix + iy*v.nx + iz*v.nx*v.ny
}

// Unflatten is the inverse of Flatten.
func (v *DoseVolume) Unflatten(i int) (ix, iy, iz int) {
	plane := v.nx * v.ny
	iz = i / plane
	rem := i % plane
	return rem % v.nx, rem / v.nx, iz
}

func (v *DoseVolume) checkIndex(ix, iy, iz int) error {
	if ix < 0 || ix >= v.nx || iy < 0 || iy >= v.ny || iz < 0 || iz >= v.nz {
		return fmt.Errorf("voxel (%d,%d,%d) outside %dx%dx%d grid: %w",
			ix, iy, iz, v.nx, v.ny, v.nz, models.ErrIndexOutOfRange)
	}
	return nil
}

// DoseAt returns the dose stored in voxel (ix,iy,iz).
func (v *DoseVolume) DoseAt(ix, iy, iz int) (float64, error) {
	if err := v.checkIndex(ix, iy, iz); err != nil {
		return 0, err
	}
	return v.dose[v.Flatten(ix, iy, iz)], nil
}

// UncertaintyAt returns the uncertainty stored in voxel (ix,iy,iz).
func (v *DoseVolume) UncertaintyAt(ix, iy, iz int) (float64, error) {
	if v.unc == nil {
		return 0, fmt.Errorf("volume has no uncertainty: %w", models.ErrInvalidArgument)
	}
	if err := v.checkIndex(ix, iy, iz); err != nil {
		return 0, err
	}
	return v.unc[v.Flatten(ix, iy, iz)], nil
}

// channel returns the flat array selected by ch.
func (v *DoseVolume) channel(ch models.Channel) ([]float64, error) {
	switch ch {
	case models.Dose:
		return v.dose, nil
	case models.Uncertainty:
		if v.unc == nil {
			return nil, fmt.Errorf("volume has no uncertainty: %w", models.ErrInvalidArgument)
		}
		return v.unc, nil
	}
	return nil, fmt.Errorf("unknown channel %v: %w", ch, models.ErrInvalidArgument)
}

// Extent returns the physical positions of the first and last voxel centers.
func (v *DoseVolume) Extent() (lo, hi models.Point) {
	lo = v.Origin()
	hi = models.Point{
		X: v.origin[0] + float64(v.nx-1)*v.spacing[0],
		Y: v.origin[1] + float64(v.ny-1)*v.spacing[1],
		Z: v.origin[2] + float64(v.nz-1)*v.spacing[2],
	}
	return lo, hi
}
