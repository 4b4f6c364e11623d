package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/dosematrix"
	"doseprofiler/pkg/export"
	"doseprofiler/pkg/planar"
	"doseprofiler/pkg/profile"
)

func compareCmd() *cobra.Command {
	var (
		opts      profileOptions
		calcType  string
		direction string
		xscale    float64
		yscale    float64
		measScale float64
		skipRows  int
		xCol      int
		yCol      int
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "compare [calculated] [measured]",
		Short: "Compare a calculated profile against a measured scan",
		Long: `Compare a calculated profile against a measured scan.

The calculated input is a binary dose matrix (one profile is extracted with
the --axis/--off1/--off2 settings), a planar dose export (central profile),
a .npy profile or a column text file. The measured input is a column text
file. Half-maximum crossings are reported for both.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("xscale") {
				xscale = cfg.Compare.XScale
			}
			if !cmd.Flags().Changed("yscale") {
				yscale = cfg.Compare.YScale
			}
			if !cmd.Flags().Changed("measured-yscale") {
				measScale = cfg.Compare.MeasuredYScale
			}
			if !cmd.Flags().Changed("skip") {
				skipRows = cfg.Compare.SkipRows
			}
			if calcType == "" {
				calcType = detectType(args[0])
			}

			calc, err := loadCalculated(cmd, &opts, args[0], calcType, direction, skipRows)
			if err != nil {
				return err
			}
			calc.XScale *= xscale
			calc.YScale *= yscale

			logf("Loading measured profile %s", args[1])
			meas, err := profile.LoadColumns(args[1], xCol, yCol, skipRows)
			if err != nil {
				return err
			}
			meas.YScale *= measScale

			if normalize {
				if err := calc.NormalizeCAX(); err != nil {
					return fmt.Errorf("calculated: %w", err)
				}
				if err := meas.NormalizeCAX(); err != nil {
					return fmt.Errorf("measured: %w", err)
				}
			}

			return printComparison(cmd.OutOrStdout(), calc, meas)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&calcType, "type", "", "calculated input type: bindose, planar, npy or columns (default from extension)")
	cmd.Flags().StringVar(&direction, "direction", "column", "central column or row of a planar export")
	cmd.Flags().Float64Var(&xscale, "xscale", 1, "scale applied to calculated positions")
	cmd.Flags().Float64Var(&yscale, "yscale", 1, "scale applied to calculated values")
	cmd.Flags().Float64Var(&measScale, "measured-yscale", 1, "scale applied to measured values")
	cmd.Flags().IntVar(&skipRows, "skip", 0, "header lines to skip in column files")
	cmd.Flags().IntVar(&xCol, "xcol", 0, "position column of column files")
	cmd.Flags().IntVar(&yCol, "ycol", 1, "value column of column files")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "center both profiles and scale them to 100 on the central axis")
	return cmd
}

// detectType guesses the calculated input type from the file extension.
func detectType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bindose", ".bin", ".dose":
		return "bindose"
	case ".npy":
		return "npy"
	}
	return "columns"
}

func loadCalculated(cmd *cobra.Command, opts *profileOptions, path, kind, direction string, skipRows int) (*profile.Profile, error) {
	logf("Loading calculated %s profile %s", kind, path)
	switch kind {
	case "bindose":
		reqs, err := opts.requests(cmd)
		if err != nil {
			return nil, err
		}
		if len(reqs) != 1 {
			return nil, fmt.Errorf("compare takes exactly one axis, got %d: %w", len(reqs), models.ErrInvalidArgument)
		}
		v, err := dosematrix.Load(path)
		if err != nil {
			return nil, err
		}
		return v.ExtractProfile(reqs[0].Axis, reqs[0].At, reqs[0].Channel)
	case "planar":
		delim, err := cfg.Delimiter()
		if err != nil {
			return nil, err
		}
		g, err := planar.Load(path, delim)
		if err != nil {
			return nil, err
		}
		return centralProfile(g, direction)
	case "npy":
		return export.ReadNpy(path)
	case "columns":
		return profile.LoadColumns(path, 0, 1, skipRows)
	}
	return nil, fmt.Errorf("invalid input type %q: %w", kind, models.ErrInvalidArgument)
}

func printComparison(w io.Writer, calc, meas *profile.Profile) error {
	if m := meas.Max(); m != 0 {
		fmt.Fprintf(w, "Dmax ratio (calculated/measured) = %.4f\n", calc.Max()/m)
	}
	for _, row := range []struct {
		label string
		p     *profile.Profile
	}{{"MC", calc}, {"Meas", meas}} {
		l, err := row.p.L50()
		if err != nil {
			fmt.Fprintf(w, "%-6s max = %.4g at %.2f\n", row.label+":", row.p.Max(), row.p.MaxPosition())
			continue
		}
		r, err := row.p.R50()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-6s L50 = %.2f  R50 = %.2f  FWHM = %.2f\n", row.label+":", l, r, r-l)
	}
	return nil
}
