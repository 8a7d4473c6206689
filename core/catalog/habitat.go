package catalog

import (
	"habitat-pricer/core/output"
	"habitat-pricer/core/types"
)

// Mars habitat option tables
var (
	SolarPanelValues = []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}
	GreenhouseValues = []float64{1, 2, 3, 4, 5}
	SizeValues       = []float64{750, 1000, 1500, 2000, 3000, 4000, 5000, 10000}
)

// NewHabitat builds the habitat catalog. Size labels are grouped by numbers.
func NewHabitat(numbers *output.NumberFormatter) *Catalog {
	c := NewCatalog()
	c.Register(types.AxisSolarPanels, SolarPanelValues, output.Plain)
	c.Register(types.AxisGreenhouses, GreenhouseValues, output.Plain)
	c.Register(types.AxisSize, SizeValues, numbers.Decimal)
	c.MustValidate()
	return c
}

// Default is the habitat catalog with en-US labels
func Default() *Catalog {
	return NewHabitat(output.USD())
}
