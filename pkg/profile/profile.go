// Package profile holds one-dimensional dose profiles: depth-dose curves and
// lateral beam profiles sampled as (position, value) pairs.
//
// A Profile stores its raw samples and applies an affine transform on every
// read, so scale factors and offsets can be changed after construction
// without touching the data:
//
//	position = raw position * XScale + XOffset
//	value    = raw value    * YScale + YOffset
package profile

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"doseprofiler/internal/models"
)

// ErrNoCrossing is returned when a profile never falls below half of its
// maximum on one side of the peak.
var ErrNoCrossing = errors.New("profile does not cross half maximum")

// Profile is an ordered sequence of samples plus the transform applied on
// read. The transform fields may be changed freely by the caller.
type Profile struct {
	XScale  float64
	XOffset float64
	YScale  float64
	YOffset float64

	pos []float64
	val []float64
}

func newProfile(pos, val []float64) *Profile {
	return &Profile{XScale: 1, YScale: 1, pos: pos, val: val}
}

// FromPairs builds a profile from parallel position and value slices. The
// slices are copied.
func FromPairs(positions, values []float64) (*Profile, error) {
	if len(positions) != len(values) {
		return nil, fmt.Errorf("%d positions but %d values: %w",
			len(positions), len(values), models.ErrInvalidArgument)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("empty profile: %w", models.ErrInvalidArgument)
	}
	pos := make([]float64, len(positions))
	val := make([]float64, len(values))
	copy(pos, positions)
	copy(val, values)
	return newProfile(pos, val), nil
}

// FromMatrix builds a profile from an N x 2 (or wider) matrix: column 0
// holds positions and column 1 holds values. Extra columns are ignored.
func FromMatrix(m mat.Matrix) (*Profile, error) {
	r, c := m.Dims()
	if c < 2 {
		return nil, fmt.Errorf("matrix has %d columns, need 2: %w", c, models.ErrInvalidArgument)
	}
	if r < 1 {
		return nil, fmt.Errorf("empty profile: %w", models.ErrInvalidArgument)
	}
	pos := make([]float64, r)
	val := make([]float64, r)
	mat.Col(pos, 0, m)
	mat.Col(val, 1, m)
	return newProfile(pos, val), nil
}

// NewUniform builds a profile of n samples spaced uniformly from origin.
func NewUniform(n int, spacing, origin float64, values []float64) (*Profile, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count %d: %w", n, models.ErrInvalidArgument)
	}
	if len(values) != n {
		return nil, fmt.Errorf("expected %d values, got %d: %w", n, len(values), models.ErrInvalidArgument)
	}
	pos := make([]float64, n)
	for i := range pos {
		pos[i] = origin + float64(i)*spacing
	}
	val := make([]float64, n)
	copy(val, values)
	return newProfile(pos, val), nil
}

// Len returns the number of samples.
func (p *Profile) Len() int {
	return len(p.pos)
}

// Positions returns the transformed sample positions in storage order.
func (p *Profile) Positions() []float64 {
	out := make([]float64, len(p.pos))
	for i, x := range p.pos {
		out[i] = x*p.XScale + p.XOffset
	}
	return out
}

// Values returns the transformed sample values in storage order.
func (p *Profile) Values() []float64 {
	out := make([]float64, len(p.val))
	for i, y := range p.val {
		out[i] = y*p.YScale + p.YOffset
	}
	return out
}

// sorted returns transformed samples ordered by ascending position with
// repeated positions collapsed to their first sample.
func (p *Profile) sorted() (xs, ys []float64) {
	px, py := p.Positions(), p.Values()
	idx := make([]int, len(px))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return px[idx[a]] < px[idx[b]] })

	xs = make([]float64, 0, len(px))
	ys = make([]float64, 0, len(py))
	for _, i := range idx {
		if n := len(xs); n > 0 && px[i] == xs[n-1] {
			continue
		}
		xs = append(xs, px[i])
		ys = append(ys, py[i])
	}
	return xs, ys
}

// ValueAt linearly interpolates the profile at position x. Positions
// outside the sampled range take the nearest end value.
func (p *Profile) ValueAt(x float64) (float64, error) {
	xs, ys := p.sorted()
	if len(xs) == 1 {
		return ys[0], nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("failed to fit profile: %w", err)
	}
	return pl.Predict(x), nil
}

// Max returns the largest transformed value.
func (p *Profile) Max() float64 {
	return floats.Max(p.Values())
}

// MaxPosition returns the position of the largest value.
func (p *Profile) MaxPosition() float64 {
	return p.Positions()[floats.MaxIdx(p.Values())]
}

// halfMax walks outward from the peak and returns the interpolated
// positions where the profile first drops below half of the peak value.
func (p *Profile) halfMax() (left, right float64, err error) {
	xs, ys := p.sorted()
	peak := floats.MaxIdx(ys)
	level := ys[peak] / 2

	left, ok := crossing(xs, ys, peak, -1, level)
	if !ok {
		return 0, 0, fmt.Errorf("left side: %w", ErrNoCrossing)
	}
	right, ok = crossing(xs, ys, peak, 1, level)
	if !ok {
		return 0, 0, fmt.Errorf("right side: %w", ErrNoCrossing)
	}
	return left, right, nil
}

func crossing(xs, ys []float64, from, step int, level float64) (float64, bool) {
	for i := from; i+step >= 0 && i+step < len(xs); i += step {
		j := i + step
		if ys[j] < level {
			t := (ys[i] - level) / (ys[i] - ys[j])
			return xs[i] + t*(xs[j]-xs[i]), true
		}
	}
	return 0, false
}

// L50 returns the position of the left half-maximum crossing.
func (p *Profile) L50() (float64, error) {
	l, _, err := p.halfMax()
	return l, err
}

// R50 returns the position of the right half-maximum crossing.
func (p *Profile) R50() (float64, error) {
	_, r, err := p.halfMax()
	return r, err
}

// FWHM returns the full width at half maximum.
func (p *Profile) FWHM() (float64, error) {
	l, r, err := p.halfMax()
	if err != nil {
		return 0, err
	}
	return r - l, nil
}

// Center returns the midpoint between the half-maximum crossings.
func (p *Profile) Center() (float64, error) {
	l, r, err := p.halfMax()
	if err != nil {
		return 0, err
	}
	return (l + r) / 2, nil
}

// NormalizeCAX moves the field center to position 0 and rescales values so
// the profile reads 100 on the central axis.
func (p *Profile) NormalizeCAX() error {
	c, err := p.Center()
	if err != nil {
		return fmt.Errorf("failed to locate central axis: %w", err)
	}
	p.XOffset -= c

	v, err := p.ValueAt(0)
	if err != nil {
		return err
	}
	if v == 0 {
		return fmt.Errorf("zero value on central axis: %w", models.ErrInvalidArgument)
	}
	k := 100 / v
	p.YScale *= k
	p.YOffset *= k
	return nil
}
