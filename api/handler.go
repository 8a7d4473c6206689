package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"habitat-pricer/adapters/display"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/selection"
	"habitat-pricer/core/session"
	"habitat-pricer/core/types"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":   "healthy",
		"version":  s.version,
		"sessions": s.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "habitat-pricer",
		"api_version": "v1",
	}, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, CatalogResponse{Axes: s.catalog.All()}, http.StatusOK)
}

// handlePredict handles POST /predict: one stateless cycle
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	state := selection.New()
	for _, axis := range types.Axes() {
		state.SetIndex(axis, req.Indices()[axis])
	}

	p := pipeline.New(s.catalog, state, s.predictor, s.formatter, &display.Label{},
		pipeline.WithLogger(s.logger))
	result, err := p.Refresh(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, result, http.StatusOK)
}

// handleCreateSession handles POST /sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()

	resp := SessionResponse{ID: sess.ID}
	result, err := sess.Refresh(r.Context())
	if err != nil {
		// the session exists; it just has no price yet
		resp.Error = errorBody(err)
	} else {
		resp.Inputs = &result.Inputs
		resp.Display = result.Display
	}
	resp.Indices = sess.Indices()

	s.writeJSON(w, resp, http.StatusCreated)
}

// handleGetSession handles GET /sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, sessionState(sess), http.StatusOK)
}

// handleDeleteSession handles DELETE /sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSelection handles PUT /sessions/{id}/selection
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var ev SelectionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if err := ev.validate(); err != nil {
		s.writeDomainError(w, err)
		return
	}

	result, err := sess.Update(r.Context(), *ev.Axis, *ev.Index)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, SessionResponse{
		ID:      sess.ID,
		Indices: result.Indices,
		Inputs:  &result.Inputs,
		Display: result.Display,
	}, http.StatusOK)
}

func sessionState(sess *session.Session) SessionResponse {
	resp := SessionResponse{ID: sess.ID, Indices: sess.Indices()}
	if price, ok := sess.Price(); ok {
		resp.Display = price
	}
	return resp
}
