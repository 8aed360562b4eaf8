package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseJSON(t *testing.T) {
	// null status ok
	handler := func(w http.ResponseWriter, r *http.Request) {
		ResponseJSON(nil, http.StatusOK, w)
	}
	req := httptest.NewRequest("GET", "http://example.com/foo", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	body, _ := io.ReadAll(w.Result().Body)

	assert.Equal(t, []byte("null"), body)
	assert.Equal(t, http.Header{"Content-Type": []string{"application/json"}}, w.Header())
	assert.Equal(t, 200, w.Code)

	// interface status 500
	handler = func(w http.ResponseWriter, r *http.Request) {
		ResponseError("Not OK", http.StatusInternalServerError, w)
	}
	w = httptest.NewRecorder()
	handler(w, req)
	body, _ = io.ReadAll(w.Result().Body)

	assert.Equal(t, []byte(`{"message":"Not OK"}`), body)
	assert.Equal(t, 500, w.Code)
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "ok", status: http.StatusOK},
		{name: "no content", status: http.StatusNoContent},
		{name: "not found", status: http.StatusNotFound, body: "file not found\nmore", wantErr: "non-success status: 404: file not found"},
		{name: "empty body", status: http.StatusBadGateway, wantErr: "non-success status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := &http.Response{StatusCode: tt.status, Body: io.NopCloser(strings.NewReader(tt.body))}
			err := CheckResponse(response)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var statusErr HTTPStatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPostJSONWithRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var payload map[string]string
		assert.NoError(t, DecodeJSON(r.Body, &payload))
		assert.Equal(t, "run-1", payload["runId"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var retries []int
	err := PostJSONWithRetry(context.Background(), server.Client(), server.URL, map[string]string{"runId": "run-1"}, 3, 0,
		func(attempt, maxAttempts int, err error) {
			retries = append(retries, attempt)
			assert.Equal(t, 3, maxAttempts)
			assert.Error(t, err)
		})

	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []int{1, 2}, retries)
}

func TestPostJSONWithRetryGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := PostJSONWithRetry(context.Background(), server.Client(), server.URL, struct{}{}, 2, 0, nil)

	var statusErr HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Mode string `json:"mode"`
	}
	assert.NoError(t, DecodeJSON(strings.NewReader(`{"mode":"local"}`), &target))
	assert.Equal(t, "local", target.Mode)
	assert.Error(t, DecodeJSON(strings.NewReader(`{"mode":"local","extra":1}`), &target))
	assert.NoError(t, DecodeJSON(strings.NewReader(`{}`), nil))
}
