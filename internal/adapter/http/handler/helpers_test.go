package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"missing user", domain.ErrUserNotFound, http.StatusNotFound},
		{"missing snapshot", domain.ErrSnapshotNotFound, http.StatusNotFound},
		{"wrapped unsupported currency", fmt.Errorf("parsing: %w", domain.ErrUnsupportedCurrency), http.StatusBadRequest},
		{"no rate for target", fmt.Errorf("%w for KZT", domain.ErrRateUnavailable), http.StatusBadRequest},
		{"amount too large", domain.ErrAmountTooLarge, http.StatusBadRequest},
		{"duplicate email", domain.ErrUserExists, http.StatusConflict},
		{"bad token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"feed down", fmt.Errorf("%w: ecb: timeout", domain.ErrAcquisition), http.StatusBadGateway},
		{"storage failure", errors.New("conn reset"), http.StatusInternalServerError},
		{"snapshot load failure", fmt.Errorf("loading latest snapshot: %w", errors.New("conn reset")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapDomainError(tt.err))
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	t.Run("client errors keep details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		writeDomainError(rr, "conversion failed", fmt.Errorf("%w for KZT", domain.ErrRateUnavailable))

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, "conversion failed", resp.Error)
		assert.Contains(t, resp.Message, "KZT")
	})

	t.Run("internal errors are opaque", func(t *testing.T) {
		rr := httptest.NewRecorder()
		writeDomainError(rr, "failed", errors.New("pq: connection refused"))

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Empty(t, resp.Message)
	})
}

func TestDecodeBody(t *testing.T) {
	var out struct {
		Amount json.Number `json:"amount"`
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 10.015}`))
	require.True(t, decodeBody(rr, req, &out))
	assert.Equal(t, json.Number("10.015"), out.Amount)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.False(t, decodeBody(rr, req, &out))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "empty request body")

	rr = httptest.NewRecorder()
	oversized := `{"amount":"` + strings.Repeat("9", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(oversized))
	assert.False(t, decodeBody(rr, req, &out))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestActingUser(t *testing.T) {
	rr := httptest.NewRecorder()
	id, ok := actingUser(rr, newRequest(http.MethodGet, "/", "", "user-1"))
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	rr = httptest.NewRecorder()
	_, ok = actingUser(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		query    string
		expected int
	}{
		{"limit=50", 50},
		{"limit=invalid", 10},
		{"", 10},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/expenses?"+tt.query, nil)
		assert.Equal(t, tt.expected, parseIntQuery(req, "limit", 10), tt.query)
	}
}
