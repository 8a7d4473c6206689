// Package model - Pre-trained price model artifacts
// Loads linear price models from HCL or YAML and evaluates them.
package model

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
)

// Feature names a model input
const (
	FeatureSolarPanels = "solar_panels"
	FeatureGreenhouses = "greenhouses"
	FeatureSize        = "size"
)

// Features lists every input in predictor argument order
var Features = []string{FeatureSolarPanels, FeatureGreenhouses, FeatureSize}

//go:embed mars_habitat_pricer.hcl
var builtinArtifact []byte

// BuiltinFilename is the name of the embedded artifact
const BuiltinFilename = "mars_habitat_pricer.hcl"

// LinearModel predicts price = intercept + sum(weight * input)
type LinearModel struct {
	Name         string
	Version      string
	Intercept    float64
	Coefficients map[string]float64
}

// Predict evaluates the model
func (m *LinearModel) Predict(ctx context.Context, in types.Inputs) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	price := m.Intercept +
		m.Coefficients[FeatureSolarPanels]*in.SolarPanels +
		m.Coefficients[FeatureGreenhouses]*in.Greenhouses +
		m.Coefficients[FeatureSize]*in.Size
	return price, nil
}

// String identifies the model in logs
func (m *LinearModel) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks the artifact describes exactly the three features
func (m *LinearModel) Validate() error {
	if m.Name == "" {
		return apperrors.Model("model has no name", nil)
	}
	if !finite(m.Intercept) {
		return apperrors.Model("intercept is not finite", nil)
	}
	for _, f := range Features {
		w, ok := m.Coefficients[f]
		if !ok {
			return apperrors.Model("missing coefficient "+f, nil)
		}
		if !finite(w) {
			return apperrors.Model("coefficient "+f+" is not finite", nil)
		}
	}
	for name := range m.Coefficients {
		if !isFeature(name) {
			return apperrors.Model("unknown feature "+name, nil)
		}
	}
	return nil
}

// Load reads an artifact, choosing the decoder by file extension
func Load(path string) (*LinearModel, error) {
	return LoadWithVariables(path, nil)
}

// LoadWithVariables reads an artifact whose HCL expressions may refer to var.<name>
func LoadWithVariables(path string, vars map[string]float64) (*LinearModel, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Model("read model "+path, err)
	}
	return ParseWithVariables(filepath.Base(path), src, vars)
}

// Parse decodes an artifact named filename
func Parse(filename string, src []byte) (*LinearModel, error) {
	return ParseWithVariables(filename, src, nil)
}

// ParseWithVariables decodes an artifact, exposing vars to HCL expressions.
// YAML artifacts ignore vars.
func ParseWithVariables(filename string, src []byte, vars map[string]float64) (*LinearModel, error) {
	var (
		m   *LinearModel
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		m, err = decodeHCL(filename, src, vars)
	case ".yaml", ".yml":
		m, err = decodeYAML(src)
	default:
		return nil, apperrors.Model("unsupported model format "+filename, nil)
	}
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Builtin returns the embedded default model
func Builtin() *LinearModel {
	m, err := Parse(BuiltinFilename, builtinArtifact)
	if err != nil {
		panic(fmt.Sprintf("embedded model is invalid: %v", err))
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isFeature(name string) bool {
	for _, f := range Features {
		if f == name {
			return true
		}
	}
	return false
}
