package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/dosematrix"
)

func planeCmd() *cobra.Command {
	var (
		axis    string
		index   int
		at      float64
		channel string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "plane [file.bindose]",
		Short: "Write one voxel plane of a binary dose matrix as a planar text grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := models.ParseAxis(axis)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("channel") {
				channel = cfg.Profile.Channel
			}
			ch, err := models.ParseChannel(channel)
			if err != nil {
				return err
			}
			delim, err := cfg.Delimiter()
			if err != nil {
				return err
			}

			logf("Loading %s", args[0])
			v, err := dosematrix.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("at") {
				if index, err = v.NearestIndex(a, at); err != nil {
					return err
				}
			}
			g, err := v.ExtractPlane(a, index, ch)
			if err != nil {
				return err
			}
			rows, cols := g.Dims()
			logf("Extracted %s plane %d: %d x %d", a, index, rows, cols)

			if out == "" || out == "-" {
				return g.Write(cmd.OutOrStdout(), delim)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w: %w", out, models.ErrIO, err)
			}
			if err := g.Write(file, delim); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w: %w", out, models.ErrIO, err)
			}
			logf("Saved %s", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&axis, "axis", "z", "axis orthogonal to the plane")
	cmd.Flags().IntVar(&index, "index", 0, "voxel index of the plane along the axis")
	cmd.Flags().Float64Var(&at, "at", 0, "physical position of the plane along the axis (nearest voxel)")
	cmd.MarkFlagsMutuallyExclusive("index", "at")
	cmd.Flags().StringVar(&channel, "channel", "", "dose or uncertainty")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
