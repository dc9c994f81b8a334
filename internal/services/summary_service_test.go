package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
	"github.com/piyushmakhija5/ai-playground/internal/shared/testutil"
)

func newTestService(t *testing.T) *SummaryService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewSummaryService(financial.NewSummarizer(logger, financial.SummarizerConfig{}), logger)
}

func TestSummaryService_Summarize(t *testing.T) {
	svc := newTestService(t)

	rep, err := svc.Summarize(context.Background(), SummaryRequest{
		CompanyName: " Acme ",
		Filename:    "../uploads/orders.csv",
		Body:        strings.NewReader(testutil.SampleOrdersCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", rep.CompanyName)
	assert.Equal(t, "orders.csv", rep.Source)
	assert.Equal(t, 3, rep.Summary.TotalOrders)
	assert.Equal(t, 3000.0, rep.Summary.TotalNetSales)
}

func TestSummaryService_UnsupportedFormat(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Summarize(context.Background(), SummaryRequest{
		Filename: "orders.pdf",
		Body:     strings.NewReader("x"),
	})

	var loadErr *financial.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.ErrorIs(t, err, financial.ErrUnsupportedFormat)
	assert.Equal(t, "orders.pdf", loadErr.Path)
}

func TestSummaryService_LoadFailure(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Summarize(context.Background(), SummaryRequest{
		Filename: "orders.csv",
		Body:     strings.NewReader(""),
	})
	assert.ErrorIs(t, err, financial.ErrEmptyTable)
}

func TestHealthService(t *testing.T) {
	hs := NewHealthService(nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.NotEmpty(t, status.Version)
	assert.Equal(t, status.Version, hs.Version().Version)
}
