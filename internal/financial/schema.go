package financial

import (
	"strings"
	"time"
)

// Currency is the fixed currency of every monetary value in a Summary.
const Currency = "INR"

// Source column names as they appear in marketplace exports.
const (
	ColOrderID                = "Order ID"
	ColSKUID                  = "SKU ID"
	ColCategory               = "Product Category"
	ColOrderDate              = "Order Date"
	ColOrderStatus            = "Order Status"
	ColListingGMV             = "Listing Gmv"
	ColShippingDiscount       = "Shipping Discount"
	ColSelfDiscount           = "Self Discount"
	ColTotalDiscount          = "Total Discount"
	ColNetSales               = "Net Sales Excl Gst"
	ColDeliveredCharges       = "Delivered Charges Excl Gst"
	ColReturnedCharges        = "Returned Charges Excl Gst"
	ColFreeReplacementCharges = "Free Replacement Charges Excl Gst"
	ColIndirectCharges        = "Indirect Charges Excl Gst"
	ColNetRevenue             = "Net Revenue Excl Gst"
	ColOutputGST              = "Output Gst"
	ColInputCreditGST         = "Input Credit Gst"
	ColTCS                    = "TCS"
	ColTDS                    = "TDS"
)

// MonetaryColumns lists the fourteen money columns that are zero-filled when
// missing from the source.
var MonetaryColumns = []string{
	ColShippingDiscount,
	ColSelfDiscount,
	ColTotalDiscount,
	ColNetSales,
	ColDeliveredCharges,
	ColReturnedCharges,
	ColFreeReplacementCharges,
	ColIndirectCharges,
	ColNetRevenue,
	ColOutputGST,
	ColInputCreditGST,
	ColListingGMV,
	ColTCS,
	ColTDS,
}

// OrderStatus is a lowercased order status value.
type OrderStatus string

const (
	StatusDelivered       OrderStatus = "delivered"
	StatusReturned        OrderStatus = "returned"
	StatusFreeReplacement OrderStatus = "free_replacement"
)

// ParseOrderStatus normalizes a raw status cell.
func ParseOrderStatus(raw string) OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// IsReturn reports whether the status counts towards the return rate.
func (s OrderStatus) IsReturn() bool {
	return s == StatusReturned || s == StatusFreeReplacement
}

// Order is one normalized row of the transaction table. Every field exists by
// construction; absent source columns leave the zero value.
type Order struct {
	OrderID   string
	SKUID     string
	Category  string
	OrderDate *time.Time
	Status    OrderStatus

	ListingGMV             float64
	ShippingDiscount       float64
	SelfDiscount           float64
	TotalDiscount          float64
	NetSales               float64
	DeliveredCharges       float64
	ReturnedCharges        float64
	FreeReplacementCharges float64
	IndirectCharges        float64
	NetRevenue             float64
	OutputGST              float64
	InputCreditGST         float64
	TCS                    float64
	TDS                    float64

	// Derived fields, filled by Derive.
	TotalTaxLiability float64
	TotalCharges      float64
	BiggestCharge     float64
}

// ColumnPresence records which optional source columns were usable.
type ColumnPresence struct {
	SKU      bool
	Category bool
	Status   bool
	Date     bool
	// TotalDiscount is true only when the column existed and at least one
	// cell parsed as a number.
	TotalDiscount bool
}
