// Package pipeline - Prediction update pipeline
// Every selection change runs one cycle:
// 1. Read the selected index of every axis
// 2. Resolve the catalog values
// 3. Ask the predictor for a price
// 4. Format the price and hand it to the display
package pipeline

import (
	"context"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
	"habitat-pricer/internal/logging"
)

// Catalog resolves selected indices to model inputs
type Catalog interface {
	Resolve(indices types.Indices) (types.Inputs, error)
}

// Selection stores the selected index per axis
type Selection interface {
	SetIndex(axis types.Axis, index int)
	Snapshot() types.Indices
}

// Predictor maps the three inputs to a price
type Predictor interface {
	Predict(ctx context.Context, in types.Inputs) (float64, error)
}

// PredictorFunc adapts a function to Predictor
type PredictorFunc func(ctx context.Context, in types.Inputs) (float64, error)

// Predict calls f
func (f PredictorFunc) Predict(ctx context.Context, in types.Inputs) (float64, error) {
	return f(ctx, in)
}

// Formatter turns a price into display text
type Formatter interface {
	Currency(price float64) string
}

// Display receives the formatted price after every successful cycle
type Display interface {
	Show(ctx context.Context, text string) error
}

// Pipeline recomputes the displayed price on selection changes.
// Safe for concurrent use; a cycle overtaken by a newer one is dropped.
type Pipeline struct {
	catalog   Catalog
	selection Selection
	predictor Predictor
	formatter Formatter
	display   Display
	logger    *zap.Logger

	mu          sync.Mutex
	generation  uint64
	lastDisplay string
	displayed   bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline
func New(catalog Catalog, selection Selection, predictor Predictor, formatter Formatter, display Display, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:   catalog,
		selection: selection,
		predictor: predictor,
		formatter: formatter,
		display:   display,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.Named("pipeline")
	}
	return p
}

// Update handles one selection event and runs a cycle
func (p *Pipeline) Update(ctx context.Context, axis types.Axis, index int) (*types.Result, error) {
	if !axis.IsValid() {
		return nil, apperrors.Newf(apperrors.TypeInvalidSelection, "unknown axis %s", axis)
	}
	p.selection.SetIndex(axis, index)
	p.logger.Debug("selection changed", zap.Stringer("axis", axis), zap.Int("index", index))
	return p.Refresh(ctx)
}

// Refresh runs one read-predict-format-display cycle for the current selection.
// On error the display keeps its previous price.
func (p *Pipeline) Refresh(ctx context.Context) (*types.Result, error) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	indices := p.selection.Snapshot()
	inputs, err := p.catalog.Resolve(indices)
	if err != nil {
		p.logger.Warn("invalid selection", zap.Uint64("generation", gen), zap.Error(err))
		return nil, err
	}

	price, err := p.predictor.Predict(ctx, inputs)
	if err != nil {
		p.logger.Warn("prediction failed", zap.Uint64("generation", gen), zap.Error(err))
		return nil, apperrors.PredictionUnavailable("predictor failed", err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		p.logger.Warn("prediction not finite", zap.Uint64("generation", gen), zap.Float64("price", price))
		return nil, apperrors.Newf(apperrors.TypePredictionUnavailable, "predictor returned %v", price)
	}

	text := p.formatter.Currency(price)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug("dropping stale prediction", zap.Uint64("generation", gen), zap.Uint64("latest", p.generation))
		return nil, apperrors.Stale(gen, p.generation)
	}

	if err := p.display.Show(ctx, text); err != nil {
		p.logger.Error("display failed", zap.String("price", text), zap.Error(err))
		return nil, apperrors.Internal("display price", err)
	}
	p.lastDisplay = text
	p.displayed = true

	p.logger.Debug("price updated",
		zap.Uint64("generation", gen),
		zap.Float64("solar_panels", inputs.SolarPanels),
		zap.Float64("greenhouses", inputs.Greenhouses),
		zap.Float64("size", inputs.Size),
		zap.String("price", text),
	)

	return &types.Result{
		Indices:    indices,
		Inputs:     inputs,
		Price:      decimal.NewFromFloat(price),
		Display:    text,
		Generation: gen,
	}, nil
}

// LastDisplayed returns the most recent price shown, if any
func (p *Pipeline) LastDisplayed() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastDisplay, p.displayed
}
