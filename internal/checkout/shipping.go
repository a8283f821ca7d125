package checkout

// Method is the delivery option chosen at step 2. Each carries a fixed
// price that supersedes the cart's flat-fee estimate for the rest of
// the checkout.
type Method string

const (
	MethodStandard  Method = "standard"  // 3-5 days
	MethodExpress   Method = "express"   // 1-2 days
	MethodOvernight Method = "overnight" // next morning
)

var methodPrices = map[Method]float64{
	MethodStandard:  5.99,
	MethodExpress:   12.99,
	MethodOvernight: 24.99,
}

func (m Method) Valid() bool {
	_, ok := methodPrices[m]
	return ok
}

func (m Method) Price() float64 { return methodPrices[m] }

// ShippingInfo is collected at step 1. Every field is required.
type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentInfo is collected at step 3. Payment is simulated, so fields
// are checked for presence only, never charged or deep-validated.
type PaymentInfo struct {
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}
