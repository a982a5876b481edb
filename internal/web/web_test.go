package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/database"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/validation"
)

func TestErrorMapper_Map(t *testing.T) {
	errGone := errors.New("gone")
	mapper := NewErrorMapper().
		WithMapping(validation.ErrNotFound, http.StatusNotFound, "Not found").
		WithMapping(errGone, http.StatusGone, "gone for good")

	problems := &validation.Problems{Message: "validation failed"}
	problems.Add("item id %d not found", 99)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details []string
	}{
		{"nil", nil, http.StatusOK, "", nil},
		{"not found wrapped", fmt.Errorf("get: %w", validation.ErrNotFound), http.StatusNotFound, "Not found", nil},
		{"custom mapping", errGone, http.StatusGone, "gone for good", nil},
		{"field error", validation.Required("name"), http.StatusBadRequest, "name is required", nil},
		{"problems", fmt.Errorf("create: %w", problems), http.StatusBadRequest, "validation failed", []string{"item id 99 not found"}},
		{"data access", &database.DataAccessError{Op: "q", Err: errors.New("connection refused")}, http.StatusInternalServerError, "connection refused", nil},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "request timeout", nil},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := mapper.Map(tt.err)
			assert.Equal(t, tt.status, info.Status)
			assert.Equal(t, tt.message, info.Message)
			assert.Equal(t, tt.details, info.Details)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "validation failed", []string{"a", "b"}, "req-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, []string{"a", "b"}, body.Details)
	assert.Equal(t, "req-1", body.RequestID)
	assert.NotEmpty(t, body.Timestamp)
}

func TestWriteError_OmitsEmptyDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Not found", nil, "")
	assert.NotContains(t, rec.Body.String(), "details")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		wantName    string
		wantErr     string
	}{
		{"valid", "application/json", `{"name":"A"}`, "A", ""},
		{"charset param", "application/json; charset=utf-8", `{"name":"B"}`, "B", ""},
		{"no content type", "", `{"name":"C"}`, "C", ""},
		{"empty body", "application/json", ``, "", ""},
		{"malformed", "application/json", `{"name":`, "", "Invalid JSON format"},
		{"wrong type", "text/plain", `{"name":"A"}`, "", "Content-Type must be application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			var p payload
			err := DecodeJSON(req, &p)
			if tt.wantErr != "" {
				var verr validation.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantErr, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}
}

func TestDecodeJSON_TypeErrorNamesField(t *testing.T) {
	type payload struct {
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}

	for body, field := range map[string]string{
		`{"items":"x"}`:             "items",
		`{"items":[{"id":"one"}]}`: "items.id",
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var p payload
		var verr validation.ValidationError
		require.ErrorAs(t, DecodeJSON(req, &p), &verr, body)
		assert.Equal(t, field, verr.Field, body)
		assert.Equal(t, "Invalid JSON format", verr.Message, body)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw  string
		id   int64
		good bool
	}{
		{"12", 12, true},
		{"abc", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x/"+tt.raw, nil)
			req.SetPathValue("id", tt.raw)
			id, ok := PathID(req, "id")
			assert.Equal(t, tt.good, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestWithLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("test", &buf, "debug")

	var seen string
	h := WithLogging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"action":"request_completed"`)
	assert.Contains(t, buf.String(), `"status_code":418`)
}

func TestWithLogging_KeepsIncomingRequestID(t *testing.T) {
	log := logger.NewWithWriter("test", &bytes.Buffer{}, "error")
	var seen string
	h := WithLogging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", seen)
}

func TestResponder_Error(t *testing.T) {
	var buf bytes.Buffer
	rs := NewResponder(logger.NewWithWriter("test", &buf, "debug"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req = req.WithContext(WithRequestID(req.Context(), "rid"))
	rec := httptest.NewRecorder()
	rs.Error(rec, req, "list_menu_failed", &database.DataAccessError{Op: "q", Err: errors.New("db down")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "db down", body.Error)
	assert.Equal(t, "rid", body.RequestID)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
