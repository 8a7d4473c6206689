package cmd

import (
	"github.com/spf13/cobra"

	"habitat-pricer/core/catalog"
	"habitat-pricer/core/output"
)

var optionsFormat string

// optionsCmd lists every selector option
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the selectable options of every axis",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(optionsFormat)
		if err != nil {
			return err
		}
		return output.RenderCatalog(cmd.OutOrStdout(), format, catalog.Default().All())
	},
}

func init() {
	optionsCmd.Flags().StringVarP(&optionsFormat, "format", "f", "cli", "output format (cli, json)")
	rootCmd.AddCommand(optionsCmd)
}
