package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricing_FreeShippingAboveThreshold(t *testing.T) {
	// {A: 20 x2}, {B: 10 x1} -> subtotal 50, shipping waived, tax 4.00
	items := []LineItem{
		{ProductID: "A", UnitPrice: 20, Quantity: 2},
		{ProductID: "B", UnitPrice: 10, Quantity: 1},
	}

	assert.InDelta(t, 50.0, Subtotal(items), 1e-9)
	assert.InDelta(t, 0.0, ShippingCost(items), 1e-9)
	assert.InDelta(t, 4.0, Tax(items), 1e-9)
	assert.InDelta(t, 54.0, GrandTotal(items), 1e-9)
}

func TestPricing_FlatFeeBelowThreshold(t *testing.T) {
	items := []LineItem{{ProductID: "A", UnitPrice: 10, Quantity: 2}}

	assert.InDelta(t, 20.0, Subtotal(items), 1e-9)
	assert.InDelta(t, 5.99, ShippingCost(items), 1e-9)
	assert.InDelta(t, 1.60, Tax(items), 1e-9)
	assert.InDelta(t, 27.59, GrandTotal(items), 1e-9)
}

func TestPricing_ThresholdIsStrict(t *testing.T) {
	// exactly 35 still pays the flat fee; the waiver needs subtotal > 35
	items := []LineItem{{ProductID: "A", UnitPrice: 35, Quantity: 1}}
	assert.InDelta(t, 5.99, ShippingCost(items), 1e-9)

	items[0].UnitPrice = 35.01
	assert.InDelta(t, 0.0, ShippingCost(items), 1e-9)
}

func TestPricing_GrandTotalDecomposition(t *testing.T) {
	items := []LineItem{
		{ProductID: "A", UnitPrice: 7.35, Quantity: 3},
		{ProductID: "B", UnitPrice: 12.49, Quantity: 1},
		{ProductID: "C", UnitPrice: 0.99, Quantity: 7},
	}
	assert.InDelta(t, Subtotal(items)+ShippingCost(items)+Tax(items), GrandTotal(items), 1e-9)
	assert.InDelta(t, Subtotal(items)*TaxRate, Tax(items), 1e-9)
}

func TestPricing_OrderIndependent(t *testing.T) {
	a := []LineItem{
		{ProductID: "A", UnitPrice: 7.35, Quantity: 3},
		{ProductID: "B", UnitPrice: 12.49, Quantity: 1},
	}
	b := []LineItem{a[1], a[0]}
	assert.InDelta(t, GrandTotal(a), GrandTotal(b), 1e-9)
}

func TestPricing_EmptyCart(t *testing.T) {
	assert.Zero(t, Subtotal(nil))
	assert.InDelta(t, 5.99, ShippingCost(nil), 1e-9)
	assert.Zero(t, Tax(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 27.59, Round2(20+5.99+1.6000000000000003))
	assert.Equal(t, 1.60, Round2(1.6000000000000003))
	assert.Equal(t, 0.0, Round2(0))
}
