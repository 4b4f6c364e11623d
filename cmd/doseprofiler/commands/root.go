package commands

import (
	"log"

	"github.com/spf13/cobra"

	"doseprofiler/pkg/config"
)

var (
	configPath string
	verbose    bool
	cfg        *config.Config
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "doseprofiler",
		Short:        "Extract dose profiles from Monte-Carlo and planning-system dose grids",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				c.Output.Verbose = verbose
			}
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "doseprofiler.yaml", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress")

	root.AddCommand(infoCmd(), profileCmd(), planeCmd(), planarCmd(), compareCmd(), configCmd())
	return root
}

// logf prints progress when verbose output is enabled.
func logf(format string, args ...any) {
	if cfg != nil && cfg.Output.Verbose {
		log.Printf(format, args...)
	}
}
