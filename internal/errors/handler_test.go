package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrMissingFile,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   "MISSING_FILE",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("upload: %w", ErrPayloadTooLarge),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantCode:   "PAYLOAD_TOO_LARGE",
		},
		{
			name:       "dataset load failure",
			err:        &financial.LoadError{Path: "orders.csv", Format: financial.FormatCSV, Err: fs.ErrNotExist},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDatasetLoad,
			wantCode:   "LOAD_FAILED",
		},
		{
			name:       "unsupported dataset",
			err:        &financial.LoadError{Path: "orders.pdf", Err: fmt.Errorf("%w: .pdf", financial.ErrUnsupportedFormat)},
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupported,
			wantCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:       "app validation error",
			err:        NewAppError(ErrTypeValidation, "company name too long", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/summaries", body["instance"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.NotContains(t, body, "stack")
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/boom", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kaboom", body["panic"])
	assert.Contains(t, body, "stack")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method DELETE is not allowed")
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write summary", cause).WithContext("path", "/tmp/x.csv")

	assert.Equal(t, "[STORAGE] write summary: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "/tmp/x.csv", err.Context["path"])

	assert.Equal(t, "[NOT_FOUND] summary not found", NewAppError(ErrTypeNotFound, "summary not found", nil).Error())

	var app *AppError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &app))
	assert.Equal(t, ErrTypeStorage, app.Type)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/x").
		WithExtension("error_code", "VALIDATION_FAILED").
		WithExtension("status", "ignored")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(400), body["status"], "standard members win over extensions")
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.NotContains(t, body, "detail")
}
