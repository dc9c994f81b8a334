package financial

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type monthLabel int

func (m monthLabel) String() string { return time.Month(m).String() }

func TestToPortable(t *testing.T) {
	when := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"nil", nil, nil},
		{"int", 7, int64(7)},
		{"uint8", uint8(3), int64(3)},
		{"float32", float32(1.5), 1.5},
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(-1), nil},
		{"string", "x", "x"},
		{"bool", true, true},
		{"time", when, "2024-01-05 00:00:00"},
		{"stringer", monthLabel(3), "March"},
		{"nil pointer", (*int)(nil), nil},
		{"pointer", func() *float64 { v := 2.5; return &v }(), 2.5},
		{"slice", []int{1, 2}, []any{int64(1), int64(2)}},
		{"nil slice", []float64(nil), []any{}},
		{"map keys stringified", map[monthLabel]float64{1: 1}, map[string]any{"January": 1.0}},
		{"nested", map[string]any{"a": []any{math.NaN(), int32(4)}}, map[string]any{"a": []any{nil, int64(4)}}},
		{"month series", MonthSeries{{"2024-01", 3}}, map[string]any{"2024-01": 3.0}},
		{"struct uses json names", struct {
			A int `json:"Alpha"`
			B string
			c int
		}{A: 1, B: "b"}, map[string]any{"Alpha": int64(1), "B": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPortable(tt.input))
		})
	}
}

func TestToPortable_Idempotent(t *testing.T) {
	s := summarizeRows(
		[]string{ColOrderDate, ColSKUID, ColOrderStatus, ColNetSales, ColSelfDiscount},
		[]string{"01/01/2024", "A", "delivered", "100", "5"},
		[]string{"03/02/2024", "B", "returned", "50", "0"},
	)

	once := ToPortable(s)
	twice := ToPortable(once)
	assert.Equal(t, once, twice)

	m, ok := once.(map[string]any)
	require.True(t, ok)
	assert.Len(t, m, 35)
	assert.Equal(t, int64(2), m["Total Orders"])
	assert.Equal(t, map[string]any{"2024-01": 1.0, "2024-02": 1.0}, m["Orders Per Month"])
	assert.Equal(t, m, s.Map())
}
