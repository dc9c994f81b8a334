package financial

import "math"

// Derive fills the derived fields of every order in place. Each row is
// computed from its own columns only.
func Derive(orders []Order, presence ColumnPresence) {
	for i := range orders {
		deriveOrder(&orders[i], presence.TotalDiscount)
	}
}

func deriveOrder(o *Order, hasTotalDiscount bool) {
	if !hasTotalDiscount {
		o.TotalDiscount = o.SelfDiscount + o.ShippingDiscount
	}
	o.TotalTaxLiability = o.OutputGST - o.InputCreditGST
	o.TotalCharges = o.DeliveredCharges + o.ReturnedCharges + o.FreeReplacementCharges + o.IndirectCharges
	o.BiggestCharge = math.Max(
		math.Max(math.Abs(o.DeliveredCharges), math.Abs(o.ReturnedCharges)),
		math.Max(math.Abs(o.FreeReplacementCharges), math.Abs(o.IndirectCharges)),
	)
}
