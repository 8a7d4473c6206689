// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants.
package catalog

import (
	"fmt"

	"habitat-pricer/core/types"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(axis types.Axis, values []float64) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateNotEmpty,
		validateStrictlyIncreasing,
	}
}

// Validate checks every axis is registered and passes the rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errors []error

	for _, axis := range types.Axes() {
		t, ok := c.tables[axis]
		if !ok {
			errors = append(errors, fmt.Errorf("%s: axis not registered", axis))
			continue
		}
		for _, rule := range rules {
			if err := rule(axis, t.values); err != nil {
				errors = append(errors, fmt.Errorf("%s: %w", axis, err))
			}
		}
	}

	return errors
}

func validateNotEmpty(_ types.Axis, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("no options")
	}
	return nil
}

// validateStrictlyIncreasing keeps selector order and value order aligned
func validateStrictlyIncreasing(_ types.Axis, values []float64) error {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return fmt.Errorf("option %d (%v) not greater than option %d (%v)", i, values[i], i-1, values[i-1])
		}
	}
	return nil
}

// MustValidate panics if validation fails. Only for built-in tables.
func (c *Catalog) MustValidate() {
	errors := c.Validate(DefaultValidationRules())
	if len(errors) > 0 {
		panic(fmt.Sprintf("catalog has %d validation errors, first: %v", len(errors), errors[0]))
	}
}
