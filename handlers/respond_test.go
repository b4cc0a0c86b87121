package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Reelgo/services"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{services.ErrInvalid, http.StatusBadRequest, "validation"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{services.ErrForbidden, http.StatusForbidden, "forbidden"},
		{services.ErrNotFound, http.StatusNotFound, "not_found"},
		{services.ErrConflict, http.StatusConflict, "conflict"},
		{fmt.Errorf("movie 42: %w", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("review: %w", services.ErrConflict), http.StatusConflict, "conflict"},
		{&services.FetchError{Kind: services.FetchTimeout}, http.StatusBadGateway, "upstream_unavailable"},
		{fmt.Errorf("import: %w", &services.FetchError{Kind: services.FetchHTTPError, Status: 500}), http.StatusBadGateway, "upstream_unavailable"},
		{fmt.Errorf("something else"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tt.err)

		assert.Equal(t, tt.wantStatus, rec.Code, "err=%v", tt.err)
		assert.Equal(t, tt.wantKind, decodeErrorBody(t, rec).Kind, "err=%v", tt.err)
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("pq: connection refused to 10.0.0.5"))

	detail := decodeErrorBody(t, rec)
	assert.Equal(t, "internal server error", detail.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestDecodeBodyMalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))

	var body movieRequest
	ok := decodeBody(rec, req, &body)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeErrorBody(t, rec).Kind)
}

func TestDecodeBodyValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"overview":"no title"}`))

	var body movieRequest
	ok := decodeBody(rec, req, &body)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	detail := decodeErrorBody(t, rec)
	assert.Equal(t, "validation", detail.Kind)
	assert.Contains(t, detail.Fields, "Title")
}

func TestDecodeBodyValid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"The Matrix"}`))

	var body movieRequest
	ok := decodeBody(rec, req, &body)

	require.True(t, ok)
	assert.Equal(t, "The Matrix", body.Title)
	assert.Empty(t, rec.Body.String(), "no error response on a valid body")
}
