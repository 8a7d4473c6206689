// Package api - API request/response types
package api

import (
	"habitat-pricer/core/output"
	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
)

// PredictRequest selects one option index per axis
type PredictRequest struct {
	SolarPanels int `json:"solar_panels"`
	Greenhouses int `json:"greenhouses"`
	Size        int `json:"size"`
}

// Indices converts the request to selector indices
func (r PredictRequest) Indices() types.Indices {
	return types.Indices{r.SolarPanels, r.Greenhouses, r.Size}
}

// SelectionEvent is one selector change; both fields are required
type SelectionEvent struct {
	Axis  *types.Axis `json:"axis"`
	Index *int        `json:"index"`
}

// CatalogResponse lists every axis with its options
type CatalogResponse struct {
	Axes []output.AxisOptions `json:"axes"`
}

// SessionResponse is the state of one session
type SessionResponse struct {
	ID      string        `json:"id"`
	Indices types.Indices `json:"indices"`
	Inputs  *types.Inputs `json:"inputs,omitempty"`
	Display string        `json:"display,omitempty"`
	Error   *ErrorBody    `json:"error,omitempty"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// validate reports the first missing field
func (ev SelectionEvent) validate() error {
	if ev.Axis == nil {
		return apperrors.Input("axis is required")
	}
	if ev.Index == nil {
		return apperrors.Input("index is required")
	}
	return nil
}
