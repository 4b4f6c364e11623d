package dosematrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"doseprofiler/internal/models"
)

// HighDoseLevel is the fraction of the maximum dose above which voxels count
// towards Summary.MeanUncertainty.
const HighDoseLevel = 0.5

// Summary describes a dose volume at a glance.
type Summary struct {
	NX, NY, NZ     int
	Lo, Hi         models.Point
	Spacing        models.Point
	TotalHistories float64
	Weight         float64

	// MaxDose is located in voxel MaxVoxel
	MaxDose  float64
	MaxVoxel [3]int

	MeanDose float64

	// MeanUncertainty averages the uncertainty of voxels receiving at least
	// HighDoseLevel of the maximum dose. Zero without uncertainty data.
	MeanUncertainty float64
	HighDoseVoxels  int
}

// Summarize computes the Summary of v.
func (v *DoseVolume) Summarize() Summary {
	s := Summary{
		NX: v.nx, NY: v.ny, NZ: v.nz,
		Spacing:        v.Spacing(),
		TotalHistories: v.totalHistories,
		Weight:         v.weight,
	}
	s.Lo, s.Hi = v.Extent()

	imax := floats.MaxIdx(v.dose)
	s.MaxDose = v.dose[imax]
	s.MaxVoxel[0], s.MaxVoxel[1], s.MaxVoxel[2] = v.Unflatten(imax)
	s.MeanDose = stat.Mean(v.dose, nil)

	if v.unc != nil && s.MaxDose > 0 {
		weights := make([]float64, len(v.dose))
		for i, d := range v.dose {
			if d >= HighDoseLevel*s.MaxDose {
				weights[i] = 1
				s.HighDoseVoxels++
			}
		}
		s.MeanUncertainty = stat.Mean(v.unc, weights)
	}
	return s
}
