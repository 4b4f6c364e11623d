package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/dosematrix"
	"doseprofiler/pkg/export"
	"doseprofiler/pkg/profile"
)

// profileOptions are the extraction settings shared by profile and compare.
type profileOptions struct {
	axes    []string
	channel string
	off1    float64
	off2    float64
}

func (o *profileOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.axes, "axis", nil, "axes to extract along: x, y, z (comma separated)")
	cmd.Flags().StringVar(&o.channel, "channel", "", "dose or uncertainty")
	cmd.Flags().Float64Var(&o.off1, "off1", 0, "fixed coordinate on the first remaining axis")
	cmd.Flags().Float64Var(&o.off2, "off2", 0, "fixed coordinate on the second remaining axis")
}

// requests merges the flags over the configuration defaults.
func (o *profileOptions) requests(cmd *cobra.Command) ([]dosematrix.ProfileRequest, error) {
	axes := []string{cfg.Profile.Axis}
	if cmd.Flags().Changed("axis") {
		axes = o.axes
	}
	ch := cfg.Profile.Channel
	if cmd.Flags().Changed("channel") {
		ch = o.channel
	}
	off1, off2 := cfg.Profile.Offset1, cfg.Profile.Offset2
	if cmd.Flags().Changed("off1") {
		off1 = o.off1
	}
	if cmd.Flags().Changed("off2") {
		off2 = o.off2
	}

	channel, err := models.ParseChannel(ch)
	if err != nil {
		return nil, err
	}
	reqs := make([]dosematrix.ProfileRequest, 0, len(axes))
	for _, s := range axes {
		axis, err := models.ParseAxis(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, dosematrix.ProfileRequest{
			Axis:    axis,
			At:      models.FixedPoint(axis, off1, off2),
			Channel: channel,
		})
	}
	return reqs, nil
}

func profileCmd() *cobra.Command {
	var (
		opts   profileOptions
		format string
		outDir string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "profile [file.bindose]",
		Short: "Extract profiles from a binary dose matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := opts.requests(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Output.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("out") {
				outDir = cfg.Output.Dir
			}

			logf("Loading %s", args[0])
			v, err := dosematrix.Load(args[0])
			if err != nil {
				return err
			}

			logf("Extracting %d profile(s)", len(reqs))
			profiles, err := v.ExtractProfiles(context.Background(), reqs)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			for i, p := range profiles {
				req := reqs[i]
				if stdout {
					fmt.Fprintf(cmd.OutOrStdout(), "# %s along %s\n", req.Channel, req.Axis)
					if err := export.WriteText(cmd.OutOrStdout(), p, '\t'); err != nil {
						return err
					}
					continue
				}
				path := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s%s", base, req.Axis, req.Channel, f.Ext()))
				if err := export.WriteProfile(path, p, f); err != nil {
					return err
				}
				logf("Saved %s", path)
				printProfileStats(cmd.OutOrStdout(), fmt.Sprintf("%s %s", req.Axis, req.Channel), p)
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "", "output format: text, csv or npy")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print profiles instead of writing files")
	return cmd
}

// printProfileStats prints peak, half-maximum crossings and width. Profiles
// without two crossings, such as depth-dose curves, only report the peak.
func printProfileStats(w io.Writer, label string, p *profile.Profile) {
	fmt.Fprintf(w, "%-16s max = %.4g at %.2f", label+":", p.Max(), p.MaxPosition())
	l, err := p.L50()
	if err == nil {
		r, _ := p.R50()
		fmt.Fprintf(w, "  L50 = %.2f  R50 = %.2f  FWHM = %.2f", l, r, r-l)
	}
	fmt.Fprintln(w)
}
