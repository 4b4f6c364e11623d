package dosematrix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/grid"
)

func TestSampleExactAtGridPoints(t *testing.T) {
	spacing := models.Point{X: 1, Y: 0.5, Z: 2}
	v := newTestVolume(t, 4, 3, 5, models.Point{X: -2, Y: 1, Z: 0}, spacing, func(x, y, z float64) float64 {
		return math.Sin(x) + y*y - math.Sqrt(z+1)
	})
	o := v.Origin()

	for iz := 0; iz < 5; iz++ {
		for iy := 0; iy < 3; iy++ {
			for ix := 0; ix < 4; ix++ {
				p := models.Point{
					X: o.X + float64(ix)*spacing.X,
					Y: o.Y + float64(iy)*spacing.Y,
					Z: o.Z + float64(iz)*spacing.Z,
				}
				got, err := v.SampleAt(p, models.Dose)
				if err != nil {
					t.Fatalf("SampleAt: %v", err)
				}
				want, _ := v.DoseAt(ix, iy, iz)
				if got != want {
					t.Errorf("Voxel (%d,%d,%d): expected %v, got %v", ix, iy, iz, want, got)
				}
			}
		}
	}
}

func TestSampleLinearField(t *testing.T) {
	v := newTestVolume(t, 5, 5, 5, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)

	points := []models.Point{
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 1.25, Y: 3.75, Z: 2.5},
		{X: 3.9, Y: 0.1, Z: 4},
	}
	for _, p := range points {
		got, err := v.ValueAt(p.X, p.Y, p.Z, models.Dose)
		if err != nil {
			t.Fatalf("ValueAt: %v", err)
		}
		if want := linearField(p.X, p.Y, p.Z); math.Abs(got-want) > 1e-9 {
			t.Errorf("At %+v: expected %v, got %v", p, want, got)
		}
	}
}

func TestSampleUncertaintyChannel(t *testing.T) {
	v := newTestVolume(t, 2, 2, 2, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)

	// uncertainty equals the flat index, which is linear in ix, iy, iz
	got, err := v.SampleAt(models.Point{X: 0.5, Y: 0.5, Z: 0.5}, models.Uncertainty)
	if err != nil {
		t.Fatalf("SampleAt: %v", err)
	}
	if math.Abs(got-3.5) > 1e-12 {
		t.Errorf("Expected 3.5, got %v", got)
	}
}

func TestSampleBounded(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	v := newTestVolume(t, 6, 5, 4, models.Point{X: -3, Y: -2, Z: 1}, models.Point{X: 1, Y: 1, Z: 1}, func(x, y, z float64) float64 {
		return math.Cos(x*y) * math.Exp(-z/3)
	})
	nx, ny, nz := v.Dims()
	o, s := v.Origin(), v.Spacing()

	for k := 0; k < 2000; k++ {
		p := models.Point{
			X: o.X - 2 + rnd.Float64()*float64(nx+3),
			Y: o.Y - 2 + rnd.Float64()*float64(ny+3),
			Z: o.Z - 2 + rnd.Float64()*float64(nz+3),
		}
		got, err := v.SampleAt(p, models.Dose)
		if err != nil {
			t.Fatalf("SampleAt: %v", err)
		}

		ix, _ := grid.ClampCell(grid.VoxelFloat(p.X, o.X, s.X), nx)
		iy, _ := grid.ClampCell(grid.VoxelFloat(p.Y, o.Y, s.Y), ny)
		iz, _ := grid.ClampCell(grid.VoxelFloat(p.Z, o.Z, s.Z), nz)
		lo, hi := math.Inf(1), math.Inf(-1)
		for dz := 0; dz < 2; dz++ {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					d, _ := v.DoseAt(ix+dx, iy+dy, iz+dz)
					lo = math.Min(lo, d)
					hi = math.Max(hi, d)
				}
			}
		}
		if got < lo-1e-12 || got > hi+1e-12 {
			t.Fatalf("At %+v: %v outside corner range [%v, %v]", p, got, lo, hi)
		}
	}
}

func TestSampleClampsOutsideGrid(t *testing.T) {
	v := newTestVolume(t, 4, 4, 4, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)

	tests := []struct {
		outside, boundary models.Point
	}{
		{models.Point{X: -5, Y: 1.5, Z: 2}, models.Point{X: 0, Y: 1.5, Z: 2}},
		{models.Point{X: 9, Y: 1.5, Z: 2}, models.Point{X: 3, Y: 1.5, Z: 2}},
		{models.Point{X: 1, Y: -0.5, Z: 2}, models.Point{X: 1, Y: 0, Z: 2}},
		{models.Point{X: 1, Y: 2, Z: 3.01}, models.Point{X: 1, Y: 2, Z: 3}},
		{models.Point{X: -1, Y: 7, Z: 100}, models.Point{X: 0, Y: 3, Z: 3}},
	}
	for _, tt := range tests {
		out, err := v.SampleAt(tt.outside, models.Dose)
		if err != nil {
			t.Fatalf("SampleAt: %v", err)
		}
		edge, err := v.SampleAt(tt.boundary, models.Dose)
		if err != nil {
			t.Fatalf("SampleAt: %v", err)
		}
		if out != edge {
			t.Errorf("At %+v: expected boundary value %v, got %v", tt.outside, edge, out)
		}
	}
}

func TestSampleNaNPropagates(t *testing.T) {
	v := newTestVolume(t, 2, 2, 2, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)
	got, err := v.SampleAt(models.Point{X: math.NaN()}, models.Dose)
	if err != nil {
		t.Fatalf("SampleAt: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("Expected NaN, got %v", got)
	}
}

func TestSampleErrors(t *testing.T) {
	if _, err := New().SampleAt(models.Point{}, models.Dose); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for single voxel, got %v", err)
	}

	flat := newTestVolume(t, 3, 3, 1, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)
	if _, err := flat.SampleAt(models.Point{}, models.Dose); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for flat grid, got %v", err)
	}

	v := newTestVolume(t, 2, 2, 2, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)
	if _, err := v.SampleAt(models.Point{}, models.Channel(9)); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for unknown channel, got %v", err)
	}
}

func BenchmarkSampleAt(b *testing.B) {
	v := newTestVolume(b, 64, 64, 64, models.Point{}, models.Point{X: 1, Y: 1, Z: 1}, linearField)
	p := models.Point{X: 31.3, Y: 12.7, Z: 50.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.SampleAt(p, models.Dose); err != nil {
			b.Fatal(err)
		}
	}
}
