// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Axis identifies one independently selectable habitat parameter
type Axis int

const (
	AxisSolarPanels Axis = iota
	AxisGreenhouses
	AxisSize
)

// AxisCount is the number of axes
const AxisCount = 3

var axisNames = [AxisCount]string{"solar_panels", "greenhouses", "size"}

// String returns the wire name of the axis
func (a Axis) String() string {
	if !a.IsValid() {
		return "axis(" + strconv.Itoa(int(a)) + ")"
	}
	return axisNames[a]
}

// IsValid checks if the axis is one of the three known axes
func (a Axis) IsValid() bool {
	return a >= 0 && a < AxisCount
}

// Axes returns all axes in selector order
func Axes() []Axis {
	return []Axis{AxisSolarPanels, AxisGreenhouses, AxisSize}
}

// ParseAxis accepts a wire name ("size") or an ordinal ("2")
func ParseAxis(s string) (Axis, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, name := range axisNames {
		if s == name {
			return Axis(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Axis(n).IsValid() {
		return Axis(n), true
	}
	return 0, false
}

// MarshalText encodes the axis as its wire name
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a wire name or ordinal
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, ok := ParseAxis(string(text))
	if !ok {
		return &UnknownAxisError{Name: string(text)}
	}
	*a = parsed
	return nil
}

// UnknownAxisError is returned when decoding an unknown axis name
type UnknownAxisError struct {
	Name string
}

func (e *UnknownAxisError) Error() string {
	return "unknown axis " + strconv.Quote(e.Name)
}

// Option is one selectable catalog entry
type Option struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Indices holds one selected index per axis
type Indices [AxisCount]int

// Inputs are the resolved model inputs, in the predictor's fixed argument order
type Inputs struct {
	SolarPanels float64 `json:"solar_panels"`
	Greenhouses float64 `json:"greenhouses"`
	Size        float64 `json:"size"`
}

// Result is one completed read-predict-format cycle
type Result struct {
	// Indices are the selections the cycle read
	Indices Indices `json:"indices"`

	// Inputs are the catalog values for those selections
	Inputs Inputs `json:"inputs"`

	// Price is the predicted price
	Price decimal.Decimal `json:"price"`

	// Display is the formatted price delivered to the display
	Display string `json:"display"`

	// Generation orders cycles within one pipeline
	Generation uint64 `json:"generation"`
}
