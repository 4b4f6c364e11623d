package dosematrix

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/profile"
)

// ExtractProfile samples channel ch once per voxel along axis, holding the
// other two coordinates at the values in at. The component of at along axis
// is ignored. Samples lie at origin + i*spacing for every voxel index i on
// the axis, and the result is a uniformly spaced profile.
func (v *DoseVolume) ExtractProfile(axis models.Axis, at models.Point, ch models.Channel) (*profile.Profile, error) {
	if !axis.Valid() {
		return nil, fmt.Errorf("unknown axis %v: %w", axis, models.ErrInvalidArgument)
	}

	n, origin, spacing := v.axisInfo(axis)
	values := make([]float64, n)
	for i := range values {
		val, err := v.SampleAt(at.With(axis, origin+float64(i)*spacing), ch)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	return profile.NewUniform(n, spacing, origin, values)
}

// ProfileAlong is ExtractProfile with the fixed coordinates given
// positionally: off1 binds to the first remaining axis in x, y, z order and
// off2 to the second. A depth-dose curve on the beam axis is
// ProfileAlong(models.AxisZ, 0, 0, models.Dose).
func (v *DoseVolume) ProfileAlong(axis models.Axis, off1, off2 float64, ch models.Channel) (*profile.Profile, error) {
	if !axis.Valid() {
		return nil, fmt.Errorf("unknown axis %v: %w", axis, models.ErrInvalidArgument)
	}
	return v.ExtractProfile(axis, models.FixedPoint(axis, off1, off2), ch)
}

// ProfileRequest describes one profile for ExtractProfiles.
type ProfileRequest struct {
	Axis    models.Axis
	At      models.Point
	Channel models.Channel
}

// ExtractProfiles extracts several profiles concurrently. Results are in
// request order. The first failure cancels the remaining extractions.
func (v *DoseVolume) ExtractProfiles(ctx context.Context, reqs []ProfileRequest) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := v.ExtractProfile(req.Axis, req.At, req.Channel)
			if err != nil {
				return fmt.Errorf("profile %d along %v: %w", i, req.Axis, err)
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
