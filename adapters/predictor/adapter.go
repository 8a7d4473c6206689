// Package predictor provides a remote model server adapter.
// The model runs behind an HTTP endpoint; this adapter makes it a pipeline predictor.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error
const maxErrorBody = 512

// Config holds remote predictor settings
type Config struct {
	// URL receives POSTed inputs
	URL string `json:"url"`

	// Timeout bounds one prediction
	Timeout time.Duration `json:"timeout"`
}

// PredictResponse is the model server reply
type PredictResponse struct {
	Price *float64 `json:"price"`
	Model string   `json:"model,omitempty"`
}

// HTTPPredictor calls a model server
type HTTPPredictor struct {
	url        string
	httpClient *http.Client
}

// NewHTTP creates a remote predictor
func NewHTTP(cfg Config) *HTTPPredictor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPredictor{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends the inputs and decodes the price
func (p *HTTPPredictor) Predict(ctx context.Context, in types.Inputs) (float64, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return 0, apperrors.Config("invalid model url", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Network("call model server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, apperrors.Newf(apperrors.TypeNetwork, "model server status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, apperrors.Model("decode model response", err)
	}
	if out.Price == nil {
		return 0, apperrors.Model("model response has no price", nil)
	}

	return *out.Price, nil
}
