package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	apperrors "habitat-pricer/internal/errors"
)

type hclFile struct {
	Model hclModel `hcl:"model,block"`
}

type hclModel struct {
	Name         string           `hcl:"name,label"`
	Version      string           `hcl:"version,optional"`
	Intercept    float64          `hcl:"intercept"`
	Coefficients []hclCoefficient `hcl:"coefficient,block"`
}

type hclCoefficient struct {
	Feature string  `hcl:"feature,label"`
	Weight  float64 `hcl:"weight"`
}

// evalContext exposes vars as the var object
func evalContext(vars map[string]float64) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))
	for name, v := range vars {
		values[name] = cty.NumberFloatVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
	}
}

func decodeHCL(filename string, src []byte, vars map[string]float64) (*LinearModel, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, apperrors.Model("parse "+filename, diags)
	}

	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(vars), &decoded); diags.HasErrors() {
		return nil, apperrors.Model("decode "+filename, diags)
	}

	m := &LinearModel{
		Name:         decoded.Model.Name,
		Version:      decoded.Model.Version,
		Intercept:    decoded.Model.Intercept,
		Coefficients: make(map[string]float64, len(decoded.Model.Coefficients)),
	}
	for _, c := range decoded.Model.Coefficients {
		if _, dup := m.Coefficients[c.Feature]; dup {
			return nil, apperrors.Model("duplicate coefficient "+c.Feature, nil)
		}
		m.Coefficients[c.Feature] = c.Weight
	}
	return m, nil
}
