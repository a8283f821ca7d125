package cart

import "math"

// Pricing rules for the cart preview. Once checkout has begun the
// selected shipping method's price supersedes the flat-fee rule; the
// threshold rule below only ever prices the cart/mini-cart estimate.
const (
	FlatShippingFee       = 5.99
	FreeShippingThreshold = 35.0
	TaxRate               = 0.08
)

func Subtotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// ShippingCost is the flat fee, waived strictly above the threshold.
func ShippingCost(items []LineItem) float64 {
	if Subtotal(items) > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

func Tax(items []LineItem) float64 {
	return Subtotal(items) * TaxRate
}

func GrandTotal(items []LineItem) float64 {
	return Subtotal(items) + ShippingCost(items) + Tax(items)
}

// Round2 rounds to 2 decimals. Only applied at the presentation
// boundary and when freezing an order total; intermediate arithmetic
// keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
