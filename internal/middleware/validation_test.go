package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/piyushmakhija5/ai-playground/internal/errors"
)

type uploadForm struct {
	CompanyName string `form:"company_name" validate:"required,max=120,company"`
	Format      string `form:"format" validate:"omitempty,oneof=json markdown html prompt"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		form       uploadForm
		wantFields []string
	}{
		{"valid", uploadForm{CompanyName: "Acme Retail", Format: "json"}, nil},
		{"format optional", uploadForm{CompanyName: "Acme"}, nil},
		{"missing company", uploadForm{Format: "json"}, []string{"company_name"}},
		{"bad format", uploadForm{CompanyName: "Acme", Format: "pdf"}, []string{"format"}},
		{"braces rejected", uploadForm{CompanyName: "{Acme}"}, []string{"company_name"}},
		{"too long", uploadForm{CompanyName: strings.Repeat("a", 121)}, []string{"company_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.form)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			var fields []string
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	errHandler := apierrors.NewErrorHandler(nil, false)
	h := ContentTypeValidator(errHandler, "multipart/form-data")(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
