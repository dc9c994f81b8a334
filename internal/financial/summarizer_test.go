package financial

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []observed
}

type observed struct {
	format Format
	rows   int
	err    error
}

func (r *recordingObserver) ObserveSummary(_ context.Context, format Format, rows int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, observed{format, rows, err})
}

const sampleCSV = `Order ID,Order Date,SKU ID,Product Category,Order Status,Net Sales Excl Gst,Self Discount,Shipping Discount,Returned Charges Excl Gst,Output Gst,Input Credit Gst
OD1,05/01/2024,SKU-A,Shoes,Delivered,1000,50,0,0,180,20
OD2,20/01/2024,SKU-B,Bags,Returned,500,0,25,50,90,10
OD3,03/02/2024,SKU-A,Shoes,delivered,1500,0,0,0,270,30
`

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewSummarizer_Defaults(t *testing.T) {
	s := NewSummarizer(nil, SummarizerConfig{})
	assert.Equal(t, DateStrict, s.config.CSVDateMode)
	assert.Equal(t, DateLoose, s.config.SpreadsheetDateMode)
	assert.Equal(t, DefaultDateLayout, s.config.DateLayout)
	assert.Equal(t, 4, s.config.BatchConcurrency)
}

func TestSummarizer_SummarizeFile(t *testing.T) {
	obs := &recordingObserver{}
	s := NewSummarizer(nil, SummarizerConfig{Observer: obs})
	path := writeCSV(t, t.TempDir(), "orders.csv", sampleCSV)

	res, err := s.SummarizeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, res.Source)
	assert.Equal(t, FormatCSV, res.Format)
	sum := res.Summary
	assert.Equal(t, 3, sum.TotalOrders)
	assert.InDelta(t, 3000.0, sum.TotalNetSales, 1e-9)
	assert.InDelta(t, 75.0, sum.TotalDiscountSum, 1e-9)
	assert.InDelta(t, 480.0, sum.TotalTaxLiabilitySum, 1e-9)
	assert.InDelta(t, 16.0, sum.TotalTaxLiabilityPercentage, 1e-9)
	assert.Equal(t, 2, sum.TotalSKUs)
	assert.Equal(t, 2, sum.TotalCategories)
	assert.Equal(t, 30, sum.DaysActive)
	assert.Equal(t, []string{"2024-01", "2024-02"}, sum.OrdersPerMonth.Months())

	require.Len(t, obs.calls, 1)
	assert.Equal(t, observed{FormatCSV, 3, nil}, obs.calls[0])
}

func TestSummarizer_SummarizeSpreadsheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{ColOrderID, ColOrderDate, ColNetSales, ColOrderStatus},
		{"OD1", 45292, 1000, "Delivered"},
		{"OD2", "2024-02-10", 500, "returned"},
	})

	s := NewSummarizer(nil, SummarizerConfig{})
	res, err := s.SummarizeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, res.Format)
	assert.Equal(t, 2, res.Summary.TotalOrders)
	assert.Equal(t, []string{"2024-01", "2024-02"}, res.Summary.OrdersPerMonth.Months())
	assert.InDelta(t, 50.0, res.Summary.ReturnRate, 1e-9)
	assert.Equal(t, 41, res.Summary.DaysActive)
}

func TestSummarizer_Summarize(t *testing.T) {
	obs := &recordingObserver{}
	s := NewSummarizer(nil, SummarizerConfig{Observer: obs})

	res, err := s.Summarize(context.Background(), strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	assert.Empty(t, res.Source)
	assert.Equal(t, 3, res.Summary.TotalOrders)

	_, err = s.Summarize(context.Background(), strings.NewReader(""), FormatCSV)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Len(t, obs.calls, 2)
	assert.Error(t, obs.calls[1].err)
}

func TestSummarizer_SummarizeBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "a.csv", sampleCSV)
	other := writeCSV(t, dir, "b.csv", "Order ID,Net Sales Excl Gst\nX1,10\n")
	missing := filepath.Join(dir, "missing.csv")

	s := NewSummarizer(nil, SummarizerConfig{BatchConcurrency: 2})
	results, err := s.SummarizeBatch(context.Background(), []string{good, missing, other})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, good, results[0].Path)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Result.Summary.TotalOrders)

	var loadErr *LoadError
	assert.ErrorAs(t, results[1].Err, &loadErr)
	assert.Nil(t, results[1].Result)

	require.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[2].Result.Summary.TotalOrders)
}

func TestSummarizer_SummarizeBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSummarizer(nil, SummarizerConfig{})
	_, err := s.SummarizeBatch(ctx, []string{"a.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}
