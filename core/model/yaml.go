package model

import (
	"gopkg.in/yaml.v3"

	apperrors "habitat-pricer/internal/errors"
)

type yamlModel struct {
	Name         string             `yaml:"name"`
	Version      string             `yaml:"version"`
	Intercept    *float64           `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

func decodeYAML(src []byte) (*LinearModel, error) {
	var decoded yamlModel
	if err := yaml.Unmarshal(src, &decoded); err != nil {
		return nil, apperrors.Model("parse yaml model", err)
	}
	if decoded.Intercept == nil {
		return nil, apperrors.Model("missing intercept", nil)
	}
	return &LinearModel{
		Name:         decoded.Name,
		Version:      decoded.Version,
		Intercept:    *decoded.Intercept,
		Coefficients: decoded.Coefficients,
	}, nil
}
