package cmd

import (
	"github.com/spf13/cobra"

	"habitat-pricer/adapters/display"
	"habitat-pricer/core/output"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/selection"
	"habitat-pricer/core/types"
	"habitat-pricer/internal/app"
	"habitat-pricer/internal/config"
)

var (
	predictIndices types.Indices
	predictFormat  string
)

// predictCmd runs one prediction for the given selector indices
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the price for one selection",
	Long: `Predict the price for one selection. Flags take option indices;
run "habitat-pricer options" to see them.

Examples:
  habitat-pricer predict --solar-panels 2 --greenhouses 1 --size 3
  habitat-pricer predict --size 7 --format json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().IntVar(&predictIndices[types.AxisSolarPanels], "solar-panels", 0, "solar panels option index")
	predictCmd.Flags().IntVar(&predictIndices[types.AxisGreenhouses], "greenhouses", 0, "greenhouses option index")
	predictCmd.Flags().IntVar(&predictIndices[types.AxisSize], "size", 0, "habitat size option index")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", "cli", "output format (cli, json)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(predictFormat)
	if err != nil {
		return err
	}

	a, err := app.New(config.Get())
	if err != nil {
		return err
	}
	defer a.Close()

	state := selection.New()
	for _, axis := range types.Axes() {
		state.SetIndex(axis, predictIndices[axis])
	}

	p := pipeline.New(a.Catalog, state, a.Predictor, a.Formatter, a.Display("cli", &display.Label{}))
	result, err := p.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	return output.RenderResult(cmd.OutOrStdout(), format, result)
}
