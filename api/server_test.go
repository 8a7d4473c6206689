package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitat-pricer/core/catalog"
	"habitat-pricer/core/output"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/session"
	"habitat-pricer/core/types"
	"habitat-pricer/internal/logging"
)

func newTestServer(pred pipeline.Predictor) *Server {
	cat := catalog.Default()
	formatter := output.USD()
	return NewServer("test", Dependencies{
		Catalog:   cat,
		Predictor: pred,
		Formatter: formatter,
		Sessions:  session.NewManager(cat, pred, formatter, time.Hour, session.WithLogger(logging.Nop())),
		Logger:    logging.Nop(),
	})
}

func constant(price float64) pipeline.PredictorFunc {
	return func(context.Context, types.Inputs) (float64, error) { return price, nil }
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(constant(1))

	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = do(t, s, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"test"`)
}

func TestCatalog(t *testing.T) {
	s := newTestServer(constant(1))

	w := do(t, s, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[CatalogResponse](t, w)
	require.Len(t, resp.Axes, 3)
	assert.Equal(t, types.AxisSize, resp.Axes[2].Axis)
	assert.Len(t, resp.Axes[2].Options, 8)
	assert.Equal(t, "10,000", resp.Axes[2].Options[7].Label)
	assert.Contains(t, w.Body.String(), `"axis":"solar_panels"`)
}

func TestPredict(t *testing.T) {
	var got types.Inputs
	s := newTestServer(pipeline.PredictorFunc(func(_ context.Context, in types.Inputs) (float64, error) {
		got = in
		return 123456.0, nil
	}))

	w := do(t, s, http.MethodPost, "/predict", `{"solar_panels": 2, "greenhouses": 1, "size": 3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[types.Result](t, w)
	assert.Equal(t, "$123,456", result.Display)
	assert.Equal(t, types.Inputs{SolarPanels: 2, Greenhouses: 2, Size: 2000}, got)
}

func TestPredictErrors(t *testing.T) {
	failing := pipeline.PredictorFunc(func(context.Context, types.Inputs) (float64, error) {
		return 0, errors.New("model offline")
	})

	tests := []struct {
		name   string
		pred   pipeline.Predictor
		body   string
		status int
		code   string
	}{
		{"malformed json", constant(1), `{`, http.StatusBadRequest, "INVALID_JSON"},
		{"out of range", constant(1), `{"size": 8}`, http.StatusUnprocessableEntity, "INVALID_SELECTION"},
		{"negative index", constant(1), `{"greenhouses": -1}`, http.StatusUnprocessableEntity, "INVALID_SELECTION"},
		{"predictor down", failing, `{}`, http.StatusServiceUnavailable, "PREDICTION_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(tt.pred), http.MethodPost, "/predict", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Error.Code)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(pipeline.PredictorFunc(func(_ context.Context, in types.Inputs) (float64, error) {
		return in.Size * 10, nil
	}))

	w := do(t, s, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[SessionResponse](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "$7,500", created.Display)
	assert.Equal(t, types.Indices{}, created.Indices)

	w = do(t, s, http.MethodPut, "/sessions/"+created.ID+"/selection", `{"axis": "size", "index": 7}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "$100,000", decode[SessionResponse](t, w).Display)

	// out-of-range event leaves the previous price
	w = do(t, s, http.MethodPut, "/sessions/"+created.ID+"/selection", `{"axis": "size", "index": 8}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, s, http.MethodGet, "/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[SessionResponse](t, w)
	assert.Equal(t, "$100,000", state.Display)
	assert.Equal(t, 8, state.Indices[types.AxisSize])

	w = do(t, s, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectionValidation(t *testing.T) {
	s := newTestServer(constant(1))
	id := decode[SessionResponse](t, do(t, s, http.MethodPost, "/sessions", "")).ID

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown axis", `{"axis": "pools", "index": 1}`, http.StatusBadRequest},
		{"missing index", `{"axis": "size"}`, http.StatusBadRequest},
		{"missing axis", `{"index": 3}`, http.StatusBadRequest},
		{"null axis", `{"axis": null, "index": 3}`, http.StatusBadRequest},
		{"ordinal axis", `{"axis": "1", "index": 2}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPut, "/sessions/"+id+"/selection", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestSelectionWithoutAxisLeavesState(t *testing.T) {
	s := newTestServer(constant(1))
	id := decode[SessionResponse](t, do(t, s, http.MethodPost, "/sessions", "")).ID

	w := do(t, s, http.MethodPut, "/sessions/"+id+"/selection", `{"index": 3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INPUT_ERROR", decode[ErrorResponse](t, w).Error.Code)

	state := decode[SessionResponse](t, do(t, s, http.MethodGet, "/sessions/"+id, ""))
	assert.Equal(t, types.Indices{}, state.Indices)
}

func TestCreateSessionWithPredictorDown(t *testing.T) {
	s := newTestServer(pipeline.PredictorFunc(func(context.Context, types.Inputs) (float64, error) {
		return 0, errors.New("model offline")
	}))

	w := do(t, s, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[SessionResponse](t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PREDICTION_UNAVAILABLE", resp.Error.Code)
	assert.Empty(t, resp.Display)
}

func TestWebSocketSelectionEvents(t *testing.T) {
	var calls atomic.Int32
	s := newTestServer(pipeline.PredictorFunc(func(_ context.Context, in types.Inputs) (float64, error) {
		calls.Add(1)
		return in.SolarPanels*1000 + in.Greenhouses*100 + in.Size, nil
	}))
	srv := httptest.NewServer(s)
	defer srv.Close()

	id := decode[SessionResponse](t, do(t, s, http.MethodPost, "/sessions", "")).ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var greeting SessionResponse
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, id, greeting.ID)
	assert.Equal(t, "$1,850", greeting.Display)

	events := []struct {
		msg  string
		want string
		code string
	}{
		{`{"axis": "solar_panels", "index": 2}`, "$2,850", ""},
		{`{"axis": "greenhouses", "index": 1}`, "$2,950", ""},
		{`{"axis": "size", "index": 3}`, "$4,200", ""},
		{`{"axis": "size", "index": 99}`, "$4,200", "INVALID_SELECTION"},
		{`{"index": 0}`, "$4,200", "INPUT_ERROR"},
		{`{"axis": "size"}`, "$4,200", "INPUT_ERROR"},
		{`not json`, "$4,200", "INVALID_JSON"},
	}

	for _, ev := range events {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(ev.msg)))

		var resp SessionResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, ev.want, resp.Display, ev.msg)
		if ev.code == "" {
			assert.Nil(t, resp.Error, ev.msg)
		} else if assert.NotNil(t, resp.Error, ev.msg) {
			assert.Equal(t, ev.code, resp.Error.Code)
		}
	}

	// initial session refresh plus three valid events
	assert.Equal(t, int32(4), calls.Load())
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv := httptest.NewServer(newTestServer(constant(1)))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/nope/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
