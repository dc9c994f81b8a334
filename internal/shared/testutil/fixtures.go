package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// OrdersHeader is the column layout of SampleOrdersCSV.
var OrdersHeader = []string{
	"Order ID", "Order Date", "SKU ID", "Product Category", "Order Status",
	"Net Sales Excl Gst", "Self Discount", "Shipping Discount",
	"Returned Charges Excl Gst", "Delivered Charges Excl Gst", "Output Gst", "Input Credit Gst",
}

// SampleOrdersCSV is a small three-order export spanning two months.
var SampleOrdersCSV = strings.Join([]string{
	strings.Join(OrdersHeader, ","),
	"OD1,05/01/2024,SKU-A,Shoes,Delivered,1000,50,0,0,40,180,20",
	"OD2,20/01/2024,SKU-B,Bags,Returned,500,0,25,50,20,90,10",
	"OD3,03/02/2024,SKU-A,Shoes,delivered,1500,0,0,0,60,270,30",
}, "\n") + "\n"

// WriteFile writes body to name inside a per-test temp dir and returns the path.
func WriteFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
