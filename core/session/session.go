// Package session - Per-user selection sessions
// A session is one UI screen: its own selection state and pipeline,
// sharing the catalog, predictor and formatter with every other session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/selection"
	"habitat-pricer/core/types"
	apperrors "habitat-pricer/internal/errors"
	"habitat-pricer/internal/logging"
)

// Session is one independent selector screen
type Session struct {
	ID        string
	CreatedAt time.Time

	state    *selection.State
	pipeline *pipeline.Pipeline

	mu       sync.Mutex
	lastSeen time.Time
	now      func() time.Time
}

// Update applies a selection event
func (s *Session) Update(ctx context.Context, axis types.Axis, index int) (*types.Result, error) {
	s.touch()
	return s.pipeline.Update(ctx, axis, index)
}

// Refresh reruns the cycle for the current selection
func (s *Session) Refresh(ctx context.Context) (*types.Result, error) {
	s.touch()
	return s.pipeline.Refresh(ctx)
}

// Indices returns the selected index per axis
func (s *Session) Indices() types.Indices {
	return s.state.Snapshot()
}

// Price returns the last displayed price
func (s *Session) Price() (string, bool) {
	return s.pipeline.LastDisplayed()
}

// LastSeen returns when the session last handled an event
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// nopDisplay is used when no sink is configured; the pipeline still
// remembers the last price.
type nopDisplay struct{}

func (nopDisplay) Show(context.Context, string) error { return nil }

// SinkFactory builds the display for a new session
type SinkFactory func(sessionID string) pipeline.Display

// Manager owns every live session
type Manager struct {
	catalog   pipeline.Catalog
	predictor pipeline.Predictor
	formatter pipeline.Formatter
	sinks     SinkFactory
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Manager
type Option func(*Manager)

// WithSinks sets the per-session display factory
func WithSinks(f SinkFactory) Option {
	return func(m *Manager) { m.sinks = f }
}

// WithLogger sets the manager logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager; sessions idle longer than ttl are swept
func NewManager(catalog pipeline.Catalog, predictor pipeline.Predictor, formatter pipeline.Formatter, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		catalog:   catalog,
		predictor: predictor,
		formatter: formatter,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.Named("session")
	}
	return m
}

// Create starts a session with every axis at index 0
func (m *Manager) Create() *Session {
	id := uuid.NewString()

	var display pipeline.Display = nopDisplay{}
	if m.sinks != nil {
		if d := m.sinks(id); d != nil {
			display = d
		}
	}

	state := selection.New()
	now := m.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		state:     state,
		pipeline: pipeline.New(m.catalog, state, m.predictor, m.formatter, display,
			pipeline.WithLogger(m.logger.With(zap.String("session", id)))),
		lastSeen: now,
		now:      m.now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session", id))
	return s
}

// Get returns a live session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	return s, nil
}

// Delete ends a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return apperrors.NotFound("session", id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired idle sessions", zap.Int("removed", removed), zap.Int("live", len(m.sessions)))
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep(m.now())
		case <-ctx.Done():
			return
		}
	}
}
