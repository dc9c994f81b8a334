package exporter

import (
	"strconv"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// MetricHeaders and MonthlyHeaders head the two summary tables.
var (
	MetricHeaders  = []string{"Metric", "Value"}
	MonthlyHeaders = []string{
		"Month",
		"Orders Per Month",
		"Net Sales Per Month (INR)",
		"Order Growth Rate Per Month (%)",
		"Net Sales Growth Rate Per Month (%)",
		"Return Rate Per Month (%)",
	}
)

// MetricRecords lists the scalar metrics of s in canonical order.
func MetricRecords(s financial.Summary) [][]string {
	fields := s.Fields()
	records := make([][]string, 0, len(fields))
	for _, f := range fields {
		var value string
		switch v := f.Value.(type) {
		case financial.MonthSeries:
			continue
		case float64:
			value = formatFloat(v)
		case int:
			value = formatInt(v)
		}
		records = append(records, []string{f.Key, value})
	}
	return records
}

// MonthlyRecords lists one row per month with every month series of s.
func MonthlyRecords(s financial.Summary) [][]string {
	series := monthSeries(s)
	months := s.OrdersPerMonth.Months()
	records := make([][]string, 0, len(months))
	for _, m := range months {
		row := []string{m}
		for _, ms := range series {
			v, _ := ms.Get(m)
			row = append(row, formatFloat(v))
		}
		records = append(records, row)
	}
	return records
}

func monthSeries(s financial.Summary) []financial.MonthSeries {
	return []financial.MonthSeries{
		s.OrdersPerMonth,
		s.NetSalesPerMonth,
		s.OrderGrowthPerMonth,
		s.NetSalesGrowthPerMonth,
		s.ReturnRatePerMonth,
	}
}
