package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/export"
	"doseprofiler/pkg/planar"
	"doseprofiler/pkg/profile"
)

func planarCmd() *cobra.Command {
	var (
		direction string
		xscale    float64
		format    string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "planar [export.txt]",
		Short: "Extract the central profile of a planning-system planar dose export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delim, err := cfg.Delimiter()
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

			logf("Loading %s", args[0])
			g, err := planar.Load(args[0], delim)
			if err != nil {
				return err
			}
			p, err := centralProfile(g, direction)
			if err != nil {
				return err
			}
			p.XScale = xscale

			if out == "" || out == "-" {
				return export.WriteText(cmd.OutOrStdout(), p, '\t')
			}
			if err := export.WriteProfile(out, p, f); err != nil {
				return err
			}
			logf("Saved %s", out)
			printProfileStats(cmd.OutOrStdout(), direction, p)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "column", "central column or row")
	cmd.Flags().Float64Var(&xscale, "xscale", 1, "scale applied to positions")
	cmd.Flags().StringVar(&format, "format", "", "output format: text, csv or npy")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func centralProfile(g *planar.Grid, direction string) (*profile.Profile, error) {
	switch direction {
	case "column", "col":
		return g.CentralColumnProfile()
	case "row":
		return g.CentralRowProfile()
	}
	return nil, fmt.Errorf("invalid direction %q (must be column or row): %w", direction, models.ErrInvalidArgument)
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
