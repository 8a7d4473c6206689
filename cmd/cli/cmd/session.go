package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"habitat-pricer/adapters/display"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/selection"
	"habitat-pricer/core/types"
	"habitat-pricer/internal/app"
	"habitat-pricer/internal/config"
)

// sessionCmd is the terminal selector screen
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Change selections interactively and watch the price",
	Long: `Read selection events from stdin, one per line, as "<axis> <index>".
Axes are solar_panels, greenhouses and size (or 0, 1, 2).
The price is printed after every event; "quit" ends the session.

Example:
  printf 'solar_panels 2\ngreenhouses 1\nsize 3\n' | habitat-pricer session`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	a, err := app.New(config.Get())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	sink := a.Display("terminal", display.NewWriterSink(out, "price: "))
	p := pipeline.New(a.Catalog, selection.New(), a.Predictor, a.Formatter, sink)

	ctx := cmd.Context()
	if _, err := p.Refresh(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}

	return readEvents(cmd.InOrStdin(), cmd.ErrOrStderr(), func(axis types.Axis, index int) {
		if _, err := p.Update(ctx, axis, index); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
}

// readEvents parses "<axis> <index>" lines until EOF or quit
func readEvents(in io.Reader, errOut io.Writer, handle func(types.Axis, int)) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Fprintf(errOut, "error: want \"<axis> <index>\", got %q\n", line)
			continue
		}
		axis, ok := types.ParseAxis(fields[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown axis %q\n", fields[0])
			continue
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(errOut, "error: index %q is not a number\n", fields[1])
			continue
		}
		handle(axis, index)
	}
	return scanner.Err()
}
