// Package catalog - Habitat option catalog
// Holds the fixed ordered option list for every selectable axis.
package catalog

import (
	"habitat-pricer/core/output"
	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
)

// LabelFunc renders an option value for a selector row
type LabelFunc func(value float64) string

// table is one axis: ordered values and how to label them
type table struct {
	values []float64
	label  LabelFunc
}

// Catalog is the immutable set of axis tables
type Catalog struct {
	tables map[types.Axis]table
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[types.Axis]table),
	}
}

// Register sets the option list for an axis. The values are copied.
func (c *Catalog) Register(axis types.Axis, values []float64, label LabelFunc) {
	if label == nil {
		label = output.Plain
	}
	c.tables[axis] = table{
		values: append([]float64(nil), values...),
		label:  label,
	}
}

// Count returns the number of options for an axis; 0 for an unknown axis
func (c *Catalog) Count(axis types.Axis) int {
	return len(c.tables[axis].values)
}

// Label returns the display label of an option
func (c *Catalog) Label(axis types.Axis, index int) (string, error) {
	t, err := c.lookup(axis, index)
	if err != nil {
		return "", err
	}
	return t.label(t.values[index]), nil
}

// Value returns the numeric value of an option
func (c *Catalog) Value(axis types.Axis, index int) (float64, error) {
	t, err := c.lookup(axis, index)
	if err != nil {
		return 0, err
	}
	return t.values[index], nil
}

func (c *Catalog) lookup(axis types.Axis, index int) (table, error) {
	t, ok := c.tables[axis]
	if !ok {
		return table{}, apperrors.Newf(apperrors.TypeInvalidSelection, "unknown axis %s", axis).
			WithContext("axis", axis.String())
	}
	if index < 0 || index >= len(t.values) {
		return table{}, apperrors.InvalidSelection(axis.String(), index, len(t.values))
	}
	return t, nil
}

// Options returns a copy of an axis' options with labels
func (c *Catalog) Options(axis types.Axis) []types.Option {
	t := c.tables[axis]
	opts := make([]types.Option, len(t.values))
	for i, v := range t.values {
		opts[i] = types.Option{Index: i, Label: t.label(v), Value: v}
	}
	return opts
}

// All returns every registered axis in selector order
func (c *Catalog) All() []output.AxisOptions {
	var result []output.AxisOptions
	for _, axis := range types.Axes() {
		if _, ok := c.tables[axis]; !ok {
			continue
		}
		result = append(result, output.AxisOptions{Axis: axis, Options: c.Options(axis)})
	}
	return result
}

// Resolve reads the value of every axis at the given indices
func (c *Catalog) Resolve(indices types.Indices) (types.Inputs, error) {
	var values [types.AxisCount]float64
	for _, axis := range types.Axes() {
		v, err := c.Value(axis, indices[axis])
		if err != nil {
			return types.Inputs{}, err
		}
		values[axis] = v
	}
	return types.Inputs{
		SolarPanels: values[types.AxisSolarPanels],
		Greenhouses: values[types.AxisGreenhouses],
		Size:        values[types.AxisSize],
	}, nil
}
