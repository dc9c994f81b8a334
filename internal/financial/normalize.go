package financial

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateMode selects how strictly the Order Date column is parsed.
type DateMode string

const (
	// DateStrict accepts only the configured day/month/year layout.
	DateStrict DateMode = "strict"
	// DateLoose also accepts ISO dates, datetimes and spreadsheet serial numbers.
	DateLoose DateMode = "loose"
)

// DefaultDateLayout is day/month/year with optional leading zeros.
const DefaultDateLayout = "2/1/2006"

var looseDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2006/1/2",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Spreadsheet serials beyond 9999-12-31 are not dates.
const maxSpreadsheetSerial = 2958465

// NormalizeOptions controls column coercion.
type NormalizeOptions struct {
	DateMode   DateMode
	DateLayout string
}

// NormalizeStats counts data-quality recoveries. It is informational only.
type NormalizeStats struct {
	Rows         int
	CoercedCells int // non-empty money cells that did not parse
	NullDates    int
}

// Normalize maps a table onto the Order schema. It never fails: unparseable
// money becomes 0, unparseable dates become nil and absent columns leave
// zero values.
func Normalize(t *Table, opts NormalizeOptions) ([]Order, ColumnPresence, NormalizeStats) {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.DateMode == "" {
		opts.DateMode = DateStrict
	}

	presence := ColumnPresence{
		SKU:      t.Has(ColSKUID),
		Category: t.Has(ColCategory),
		Status:   t.Has(ColOrderStatus),
		Date:     t.Has(ColOrderDate),
	}
	stats := NormalizeStats{Rows: t.Len()}

	col := func(name string) func(row []string) string {
		i := t.Column(name)
		return func(row []string) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return row[i]
		}
	}
	money := func(name string) func(row []string) float64 {
		cell := col(name)
		return func(row []string) float64 {
			v, ok := parseMoney(cell(row))
			if !ok {
				stats.CoercedCells++
			}
			return v
		}
	}

	orderID, sku, category, date, status := col(ColOrderID), col(ColSKUID), col(ColCategory), col(ColOrderDate), col(ColOrderStatus)
	totalDiscountCell := col(ColTotalDiscount)
	listingGMV := money(ColListingGMV)
	shippingDiscount := money(ColShippingDiscount)
	selfDiscount := money(ColSelfDiscount)
	totalDiscount := money(ColTotalDiscount)
	netSales := money(ColNetSales)
	delivered := money(ColDeliveredCharges)
	returned := money(ColReturnedCharges)
	freeReplacement := money(ColFreeReplacementCharges)
	indirect := money(ColIndirectCharges)
	netRevenue := money(ColNetRevenue)
	outputGST := money(ColOutputGST)
	inputCredit := money(ColInputCreditGST)
	tcs := money(ColTCS)
	tds := money(ColTDS)

	orders := make([]Order, 0, t.Len())
	for _, row := range t.Rows {
		o := Order{
			OrderID:                strings.TrimSpace(orderID(row)),
			SKUID:                  strings.TrimSpace(sku(row)),
			Category:               strings.TrimSpace(category(row)),
			Status:                 ParseOrderStatus(status(row)),
			ListingGMV:             listingGMV(row),
			ShippingDiscount:       shippingDiscount(row),
			SelfDiscount:           selfDiscount(row),
			TotalDiscount:          totalDiscount(row),
			NetSales:               netSales(row),
			DeliveredCharges:       delivered(row),
			ReturnedCharges:        returned(row),
			FreeReplacementCharges: freeReplacement(row),
			IndirectCharges:        indirect(row),
			NetRevenue:             netRevenue(row),
			OutputGST:              outputGST(row),
			InputCreditGST:         inputCredit(row),
			TCS:                    tcs(row),
			TDS:                    tds(row),
		}

		if d, ok := ParseOrderDate(date(row), opts); ok {
			o.OrderDate = &d
		} else {
			stats.NullDates++
		}

		if !presence.TotalDiscount && t.Has(ColTotalDiscount) {
			if _, err := strconv.ParseFloat(cleanNumber(totalDiscountCell(row)), 64); err == nil {
				presence.TotalDiscount = true
			}
		}

		orders = append(orders, o)
	}

	return orders, presence, stats
}

// parseMoney coerces a cell to a float. The bool is false when a non-empty
// cell could not be parsed; the value is then 0.
func parseMoney(raw string) (float64, bool) {
	s := cleanNumber(raw)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func cleanNumber(raw string) string {
	s := strings.TrimSpace(raw)
	for _, marker := range []string{"₹", "Rs.", "INR"} {
		s = strings.TrimPrefix(s, marker)
	}
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// ParseOrderDate parses an Order Date cell. Empty or unparseable cells
// report false.
func ParseOrderDate(raw string, opts NormalizeOptions) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	if d, err := time.Parse(layout, s); err == nil {
		return d, true
	}
	if opts.DateMode != DateLoose {
		return time.Time{}, false
	}

	for _, l := range looseDateLayouts {
		if d, err := time.Parse(l, s); err == nil {
			return d, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial <= maxSpreadsheetSerial {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
