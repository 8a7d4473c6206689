package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket handles GET /sessions/{id}/ws.
// Each client message is a SelectionEvent; each is answered with the
// session state or an error before the next one is read.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := s.logger.With(zap.String("session", sess.ID))
	logger.Debug("websocket connected")

	if err := conn.WriteJSON(sessionState(sess)); err != nil {
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		resp := s.handleSocketMessage(r, sess.ID, message)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) handleSocketMessage(r *http.Request, id string, message []byte) SessionResponse {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return SessionResponse{ID: id, Error: errorBody(err)}
	}

	var ev SelectionEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		resp := sessionState(sess)
		resp.Error = &ErrorBody{Code: "INVALID_JSON", Message: err.Error()}
		return resp
	}
	if err := ev.validate(); err != nil {
		resp := sessionState(sess)
		resp.Error = errorBody(err)
		return resp
	}

	result, err := sess.Update(r.Context(), *ev.Axis, *ev.Index)
	if err != nil {
		resp := sessionState(sess)
		resp.Error = errorBody(err)
		return resp
	}
	return SessionResponse{
		ID:      sess.ID,
		Indices: result.Indices,
		Inputs:  &result.Inputs,
		Display: result.Display,
	}
}
