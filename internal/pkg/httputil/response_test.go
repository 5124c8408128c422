package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter)
		status  int
		code    string
		message string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad dates") }, 400, "invalid_request", "bad dates"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "reconnect_required", "reconnect") }, 401, "reconnect_required", "reconnect"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "report not found") }, 404, "not_found", "report not found"},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "platform_unavailable", "try later") }, 503, "platform_unavailable", "try later"},
		{"internal default", func(w http.ResponseWriter) { InternalError(w, errors.New("pq: boom")) }, 500, "", "internal server error"},
		{"internal custom", func(w http.ResponseWriter) { InternalError(w, errors.New("pq: boom"), "failed to generate report") }, 500, "", "failed to generate report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Error)
			assert.NotContains(t, rec.Body.String(), "pq: boom")
		})
	}
}

func TestDecode(t *testing.T) {
	type body struct {
		AdAccountID string `json:"adAccountId"`
	}

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"adAccountId":"acc-1"}`))
		var dst body
		assert.True(t, Decode(rec, req, &dst))
		assert.Equal(t, "acc-1", dst.AdAccountID)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"adAccountId":"acc-1","extra":1}`))
		var dst body
		assert.False(t, Decode(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var dst body
		assert.False(t, Decode(rec, req, &dst))
		assert.Equal(t, "request body is required", decodeError(t, rec).Error)
	})
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
