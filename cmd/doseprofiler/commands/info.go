package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"doseprofiler/pkg/dosematrix"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file.bindose]",
		Short: "Print header and dose statistics of a binary dose matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logf("Loading %s", args[0])
			v, err := dosematrix.Load(args[0])
			if err != nil {
				return err
			}
			s := v.Summarize()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Grid:        %d x %d x %d voxels\n", s.NX, s.NY, s.NZ)
			fmt.Fprintf(out, "Spacing:     %g, %g, %g\n", s.Spacing.X, s.Spacing.Y, s.Spacing.Z)
			fmt.Fprintf(out, "Extent X:    %g .. %g\n", s.Lo.X, s.Hi.X)
			fmt.Fprintf(out, "Extent Y:    %g .. %g\n", s.Lo.Y, s.Hi.Y)
			fmt.Fprintf(out, "Extent Z:    %g .. %g\n", s.Lo.Z, s.Hi.Z)
			fmt.Fprintf(out, "Histories:   %g\n", s.TotalHistories)
			fmt.Fprintf(out, "Weight:      %g\n", s.Weight)
			fmt.Fprintf(out, "Max dose:    %g at voxel (%d, %d, %d)\n", s.MaxDose, s.MaxVoxel[0], s.MaxVoxel[1], s.MaxVoxel[2])
			fmt.Fprintf(out, "Mean dose:   %g\n", s.MeanDose)
			if v.HasUncertainty() {
				fmt.Fprintf(out, "Uncertainty: %g mean over %d voxels above %.0f%% of max\n",
					s.MeanUncertainty, s.HighDoseVoxels, dosematrix.HighDoseLevel*100)
			}
			return nil
		},
	}
}
