package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"swipe-match-backend/internal/middleware"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := chiMiddleware.RequestID(middleware.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	// Act
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))

	// Assert
	assert.Equal(t, http.StatusTeapot, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "inside", inner["message"])
	assert.NotEmpty(t, inner["request_id"])
	assert.Equal(t, inner["request_id"], access["request_id"])
	assert.Equal(t, "GET", access["method"])
	assert.Equal(t, "/api/profiles", access["url"])
	assert.EqualValues(t, http.StatusTeapot, access["status"])
}
