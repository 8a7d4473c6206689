// Package cmd provides the CLI commands for habitat-pricer.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"habitat-pricer/internal/config"
	"habitat-pricer/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "habitat-pricer",
	Short: "Predict Mars habitat prices",
	Long: `habitat-pricer predicts the price of a Mars habitat from three selectors:
solar panels, greenhouses and habitat size.

Examples:
  habitat-pricer options
  habitat-pricer predict --solar-panels 2 --greenhouses 1 --size 3
  habitat-pricer session
  habitat-pricer serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.habitat-pricer.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "habitat-pricer version %s\n", version)
	},
}
