package financial

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// MonthLayout formats the calendar-month keys of month series.
const MonthLayout = "2006-01"

// MonthValue is a single point of a MonthSeries.
type MonthValue struct {
	Month string
	Value float64
}

// MonthSeries maps "YYYY-MM" to a value and keeps chronological order.
type MonthSeries []MonthValue

// Get returns the value for month and whether it exists.
func (s MonthSeries) Get(month string) (float64, bool) {
	for _, p := range s {
		if p.Month == month {
			return p.Value, true
		}
	}
	return 0, false
}

// Months returns the month keys in order.
func (s MonthSeries) Months() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Month
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (s MonthSeries) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s {
		sum += p.Value
	}
	return finite(sum / float64(len(s)))
}

// MarshalJSON renders the series as an object with keys in series order.
func (s MonthSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Month)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(finite(p.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping the order of its keys.
func (s *MonthSeries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("month series: expected object, got %v", tok)
	}

	series := MonthSeries{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("month series: expected string key, got %v", keyTok)
		}
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("month series %q: %w", key, err)
		}
		p := MonthValue{Month: key}
		if v != nil {
			p.Value = *v
		}
		series = append(series, p)
	}
	*s = series
	return nil
}

// Summary is the flat metric set produced for one table. JSON keys and their
// order are the public contract consumed by prompt templates.
type Summary struct {
	TotalDiscountSum              float64     `json:"Total Discount Sum (INR)"`
	TotalTaxLiabilitySum          float64     `json:"Total Tax Liability Sum (INR)"`
	TotalChargesSum               float64     `json:"Total Charges/Fee Sum (INR)"`
	AverageBiggestCharge          float64     `json:"Average Biggest Charge/Fee (INR)"`
	TotalNetSales                 float64     `json:"Total Net Sales Excl Gst (INR)"`
	TotalNetRevenue               float64     `json:"Total Net Revenue Excl Gst (INR)"`
	TotalListingGMV               float64     `json:"Total Listing Gmv (INR)"`
	TotalOrders                   int         `json:"Total Orders"`
	AverageOrderValue             float64     `json:"Average Order Value (INR)"`
	DiscountPercentage            float64     `json:"Discount Percentage"`
	SKUDiscountCoverage           float64     `json:"SKUs Discount Coverage Percentage"`
	SelfDiscountRatio             float64     `json:"Self Discount Ratio"`
	ShippingDiscountRatio         float64     `json:"Shipping Discount Ratio"`
	ReturnRate                    float64     `json:"Return Rate"`
	CostOfReturnPercentage        float64     `json:"Cost of Return Percentage"`
	LogisticsCostPercentage       float64     `json:"Logistics Cost Percentage"`
	SKUsContributing80            int         `json:"SKUs Contributing 80% of Sales"`
	DaysActive                    int         `json:"Days Active"`
	TotalSKUs                     int         `json:"Total SKUs"`
	TotalCategories               int         `json:"Total Categories"`
	AverageMonthlyOrderGrowth     float64     `json:"Average Monthly Order Growth (%)"`
	AverageMonthlyNetSalesGrowth  float64     `json:"Average Monthly Net Sales Growth (%)"`
	OrdersPerMonth                MonthSeries `json:"Orders Per Month"`
	NetSalesPerMonth              MonthSeries `json:"Net Sales Per Month (INR)"`
	OrderGrowthPerMonth           MonthSeries `json:"Order Growth Rate Per Month (%)"`
	NetSalesGrowthPerMonth        MonthSeries `json:"Net Sales Growth Rate Per Month (%)"`
	ReturnRatePerMonth            MonthSeries `json:"Return Rate Per Month (%)"`
	CostOfDoingBusinessPercentage float64     `json:"Cost of Doing Business Percentage"`
	TotalTaxLiabilityPercentage   float64     `json:"Total Tax Liability Percentage"`
	TCSSum                        float64     `json:"TCS Sum (INR)"`
	TCSPercentage                 float64     `json:"TCS Percentage"`
	TDSSum                        float64     `json:"TDS Sum (INR)"`
	TDSPercentage                 float64     `json:"TDS Percentage"`
	ProfitMarginPercentage        float64     `json:"Profit Margin Percentage"`
	DeliveryRate                  float64     `json:"Delivery Rate"`
}

// Field is one named metric of a Summary.
type Field struct {
	Key   string
	Value any
}

// Fields returns every metric in canonical key order.
func (s Summary) Fields() []Field {
	v := reflect.ValueOf(s)
	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fields = append(fields, Field{Key: jsonName(t.Field(i)), Value: v.Field(i).Interface()})
	}
	return fields
}

// Keys returns the metric names in canonical order.
func (s Summary) Keys() []string {
	fields := s.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// Map returns the summary as portable primitives keyed by metric name.
func (s Summary) Map() map[string]any {
	m, _ := ToPortable(s).(map[string]any)
	return m
}

// Aggregate reduces derived orders into a Summary. Ratios whose denominator
// is not positive resolve to 0.
func Aggregate(orders []Order, presence ColumnPresence) Summary {
	var (
		s            Summary
		totalSelf    float64
		totalShip    float64
		totalReturnC float64
		totalDeliver float64
		totalBiggest float64
		returns      int
		delivered    int
	)
	s.TotalOrders = len(orders)

	for _, o := range orders {
		s.TotalDiscountSum += o.TotalDiscount
		s.TotalTaxLiabilitySum += o.TotalTaxLiability
		s.TotalChargesSum += o.TotalCharges
		s.TotalNetSales += o.NetSales
		s.TotalNetRevenue += o.NetRevenue
		s.TotalListingGMV += o.ListingGMV
		s.TCSSum += o.TCS
		s.TDSSum += o.TDS
		totalSelf += o.SelfDiscount
		totalShip += o.ShippingDiscount
		totalReturnC += o.ReturnedCharges
		totalDeliver += o.DeliveredCharges
		totalBiggest += o.BiggestCharge
		if o.Status.IsReturn() {
			returns++
		}
		if o.Status == StatusDelivered {
			delivered++
		}
	}

	// Finite cells can still overflow a float64 sum.
	for _, sum := range []*float64{
		&s.TotalDiscountSum, &s.TotalTaxLiabilitySum, &s.TotalChargesSum,
		&s.TotalNetSales, &s.TotalNetRevenue, &s.TotalListingGMV, &s.TCSSum, &s.TDSSum,
		&totalSelf, &totalShip, &totalReturnC, &totalDeliver, &totalBiggest,
	} {
		*sum = finite(*sum)
	}

	if s.TotalOrders > 0 {
		s.AverageOrderValue = finite(s.TotalNetSales / float64(s.TotalOrders))
		s.AverageBiggestCharge = finite(totalBiggest / float64(s.TotalOrders))
	}

	sales := s.TotalNetSales
	s.DiscountPercentage = percent(s.TotalDiscountSum, sales)
	s.CostOfReturnPercentage = percent(totalReturnC, sales)
	s.LogisticsCostPercentage = percent(totalDeliver, sales)
	s.CostOfDoingBusinessPercentage = percent(s.TotalChargesSum, sales)
	s.TotalTaxLiabilityPercentage = percent(s.TotalTaxLiabilitySum, sales)
	s.TCSPercentage = percent(s.TCSSum, sales)
	s.TDSPercentage = percent(s.TDSSum, sales)
	s.ProfitMarginPercentage = percent(s.TotalNetRevenue, sales)

	s.SelfDiscountRatio = percent(totalSelf, totalSelf+totalShip)
	s.ShippingDiscountRatio = percent(totalShip, totalSelf+totalShip)

	if presence.Status {
		s.ReturnRate = percent(float64(returns), float64(s.TotalOrders))
		s.DeliveryRate = percent(float64(delivered), float64(s.TotalOrders))
	}

	if presence.SKU {
		s.TotalSKUs, s.SKUDiscountCoverage = skuCoverage(orders)
		s.SKUsContributing80 = skusForShare(orders, 0.8)
	}
	if presence.Category {
		s.TotalCategories = distinct(orders, func(o Order) string { return o.Category })
	}

	s.DaysActive = daysActive(orders)

	monthly := monthlyBreakdown(orders)
	s.OrdersPerMonth = monthly.orders
	s.NetSalesPerMonth = monthly.sales
	s.OrderGrowthPerMonth = growth(monthly.orders)
	s.NetSalesGrowthPerMonth = growth(monthly.sales)
	s.AverageMonthlyOrderGrowth = s.OrderGrowthPerMonth.Mean()
	s.AverageMonthlyNetSalesGrowth = s.NetSalesGrowthPerMonth.Mean()
	if presence.Status {
		s.ReturnRatePerMonth = monthly.returnRate
	} else {
		s.ReturnRatePerMonth = zeroSeries(monthly.orders)
	}

	return s
}

func percent(num, den float64) float64 {
	if den > 0 {
		return finite(num / den * 100)
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func distinct(orders []Order, key func(Order) string) int {
	seen := make(map[string]struct{})
	for _, o := range orders {
		if k := key(o); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

func skuCoverage(orders []Order) (int, float64) {
	all := make(map[string]struct{})
	discounted := make(map[string]struct{})
	for _, o := range orders {
		if o.SKUID == "" {
			continue
		}
		all[o.SKUID] = struct{}{}
		if o.TotalDiscount > 0 {
			discounted[o.SKUID] = struct{}{}
		}
	}
	return len(all), percent(float64(len(discounted)), float64(len(all)))
}

// skusForShare counts SKUs, ranked by net sales, whose cumulative sales stay
// within share of the total. The boundary is inclusive.
func skusForShare(orders []Order, share float64) int {
	bySKU := make(map[string]float64)
	for _, o := range orders {
		if o.SKUID == "" {
			continue
		}
		bySKU[o.SKUID] += o.NetSales
	}

	type skuSales struct {
		id    string
		sales float64
	}
	ranked := make([]skuSales, 0, len(bySKU))
	var total float64
	for id, sales := range bySKU {
		ranked = append(ranked, skuSales{id, sales})
		total += sales
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].sales != ranked[j].sales {
			return ranked[i].sales > ranked[j].sales
		}
		return ranked[i].id < ranked[j].id
	})

	limit := share * total
	var cum float64
	count := 0
	for _, r := range ranked {
		cum += r.sales
		if cum <= limit {
			count++
		}
	}
	return count
}

func daysActive(orders []Order) int {
	var first, last time.Time
	found := false
	for _, o := range orders {
		if o.OrderDate == nil {
			continue
		}
		y, m, day := o.OrderDate.Date()
		d := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		if !found || d.Before(first) {
			first = d
		}
		if !found || d.After(last) {
			last = d
		}
		found = true
	}
	if !found {
		return 0
	}
	return int(last.Sub(first).Hours())/24 + 1
}

type monthlySeries struct {
	orders     MonthSeries
	sales      MonthSeries
	returnRate MonthSeries
}

func monthlyBreakdown(orders []Order) monthlySeries {
	type bucket struct {
		orders  int
		returns int
		sales   float64
	}
	buckets := make(map[string]*bucket)
	for _, o := range orders {
		if o.OrderDate == nil {
			continue
		}
		key := o.OrderDate.Format(MonthLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.orders++
		b.sales += o.NetSales
		if o.Status.IsReturn() {
			b.returns++
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	out := monthlySeries{
		orders:     make(MonthSeries, 0, len(months)),
		sales:      make(MonthSeries, 0, len(months)),
		returnRate: make(MonthSeries, 0, len(months)),
	}
	for _, m := range months {
		b := buckets[m]
		out.orders = append(out.orders, MonthValue{m, float64(b.orders)})
		out.sales = append(out.sales, MonthValue{m, finite(b.sales)})
		out.returnRate = append(out.returnRate, MonthValue{m, percent(float64(b.returns), float64(b.orders))})
	}
	return out
}

// growth returns month-over-month percent change. The first month and any
// month following a zero month are 0.
func growth(series MonthSeries) MonthSeries {
	out := make(MonthSeries, len(series))
	for i, p := range series {
		out[i] = MonthValue{Month: p.Month}
		if i == 0 {
			continue
		}
		prev := series[i-1].Value
		if prev != 0 {
			out[i].Value = finite((p.Value - prev) / prev * 100)
		}
	}
	return out
}

func zeroSeries(series MonthSeries) MonthSeries {
	out := make(MonthSeries, len(series))
	for i, p := range series {
		out[i] = MonthValue{Month: p.Month}
	}
	return out
}
