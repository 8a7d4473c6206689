// Package output provides output formatting.
// This package produces human and machine-readable outputs for prices and catalogs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"habitat-pricer/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCLI, "":
		return FormatCLI, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want cli or json)", s)
	}
}

// AxisOptions is one catalog axis as rendered to users
type AxisOptions struct {
	Axis    types.Axis     `json:"axis"`
	Options []types.Option `json:"options"`
}

// RenderCatalog writes every axis with its options
func RenderCatalog(w io.Writer, format Format, axes []AxisOptions) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]interface{}{"axes": axes})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, a := range axes {
		fmt.Fprintf(tw, "%s\n", a.Axis)
		for _, opt := range a.Options {
			fmt.Fprintf(tw, "  [%d]\t%s\n", opt.Index, opt.Label)
		}
	}
	return tw.Flush()
}

// RenderResult writes one prediction cycle
func RenderResult(w io.Writer, format Format, result *types.Result) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "solar panels\t%s\n", Plain(result.Inputs.SolarPanels))
	fmt.Fprintf(tw, "greenhouses\t%s\n", Plain(result.Inputs.Greenhouses))
	fmt.Fprintf(tw, "size\t%s\n", Plain(result.Inputs.Size))
	fmt.Fprintf(tw, "price\t%s\n", result.Display)
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
