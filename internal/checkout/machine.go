package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/kv"
)

// Checkout steps, in order. Step 4 is terminal.
const (
	StepShippingInfo   = 1
	StepShippingMethod = 2
	StepPayment        = 3
	StepConfirmed      = 4
)

// session is the per-checkout state: an immutable cart snapshot plus
// everything collected step by step. Backward navigation keeps the
// forward steps' data so the user never re-enters it.
type session struct {
	items    []cart.LineItem
	step     int
	shipping ShippingInfo
	method   Method
	payment  PaymentInfo
}

// OrderPublisher exports a finalized order to collaborators outside the
// core. A nil publisher disables export.
type OrderPublisher interface {
	PublishOrderCompleted(ctx context.Context, o Order)
}

// Machine drives the four-step checkout flow over a single cart. At
// most one session is active at a time; starting a new checkout
// supersedes the previous session. All methods are safe for concurrent
// use; the payment submission is single-flight per session.
type Machine struct {
	cart      *cart.Store
	store     kv.Store
	publisher OrderPublisher
	log       *zap.Logger

	// simulated payment processing latency
	delay time.Duration

	mu       sync.Mutex
	sess     *session
	inflight bool
	orders   []Order
}

func NewMachine(cartStore *cart.Store, store kv.Store, publisher OrderPublisher, log *zap.Logger, delay time.Duration) *Machine {
	return &Machine{cart: cartStore, store: store, publisher: publisher, log: log, delay: delay}
}

// Restore loads the persisted order history. Called once at startup;
// degraded persistence starts with an empty history.
func (m *Machine) Restore(ctx context.Context) error {
	orders, err := loadOrders(ctx, m.store)
	if err != nil {
		m.log.Warn("order history restore degraded, starting empty", zap.Error(err))
		return nil
	}
	m.mu.Lock()
	m.orders = orders
	m.mu.Unlock()
	return nil
}

// Start begins a checkout over the cart's current contents. An empty
// cart is rejected and no session is created. An existing session is
// superseded unless its payment is being processed.
func (m *Machine) Start(ctx context.Context) error {
	items := m.cart.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight {
		return ErrDuplicateSubmission
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}
	m.sess = &session{items: items, step: StepShippingInfo}
	m.log.Info("checkout started", zap.Int("line_items", len(items)))
	return nil
}

// Abandon silently discards the active session, leaving the cart
// untouched. A no-op while the payment is in flight.
func (m *Machine) Abandon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight {
		return
	}
	m.sess = nil
}

// SubmitShippingInfo validates step 1 and advances to step 2, where a
// shipping method selection always exists (defaulted to standard).
// On validation failure the session stays at step 1.
func (m *Machine) SubmitShippingInfo(info ShippingInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ErrNoActiveSession
	}
	if m.sess.step != StepShippingInfo {
		return fmt.Errorf("submit shipping info at step %d: %w", m.sess.step, ErrWrongStep)
	}
	if verr := validateShipping(info); verr != nil {
		return verr
	}
	m.sess.shipping = info
	m.sess.method = MethodStandard
	m.sess.step = StepShippingMethod
	return nil
}

func validateShipping(info ShippingInfo) *ValidationError {
	var missing []string
	require := func(field, value string) {
		if value == "" {
			missing = append(missing, field)
		}
	}
	require("name", info.Name)
	require("email", info.Email)
	require("phone", info.Phone)
	require("address", info.Address)
	require("city", info.City)
	require("postal_code", info.PostalCode)
	require("country", info.Country)
	if info.Email != "" && !strings.Contains(info.Email, "@") {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// SelectShippingMethod records the chosen method and advances to the
// payment step.
func (m *Machine) SelectShippingMethod(method Method) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ErrNoActiveSession
	}
	if m.sess.step != StepShippingMethod {
		return fmt.Errorf("select method at step %d: %w", m.sess.step, ErrWrongStep)
	}
	if !method.Valid() {
		return fmt.Errorf("%q: %w", method, ErrUnknownMethod)
	}
	m.sess.method = method
	m.sess.step = StepPayment
	return nil
}

// GoToPreviousStep moves 2→1 or 3→2 without validation, discarding
// nothing. Steps 1 and 4 have no previous step.
func (m *Machine) GoToPreviousStep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ErrNoActiveSession
	}
	switch m.sess.step {
	case StepShippingMethod, StepPayment:
		m.sess.step--
		return nil
	default:
		return ErrNoPreviousStep
	}
}

// SubmitPayment validates step 3, simulates the processing delay and
// finalizes the order: total frozen, history appended, cart cleared,
// session moved to the terminal confirmation step. Re-entrant calls
// while one submission is in flight are rejected.
func (m *Machine) SubmitPayment(ctx context.Context, info PaymentInfo) (*Order, error) {
	m.mu.Lock()
	if m.sess == nil {
		m.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	if m.sess.step != StepPayment {
		step := m.sess.step
		m.mu.Unlock()
		return nil, fmt.Errorf("submit payment at step %d: %w", step, ErrWrongStep)
	}
	if m.inflight {
		m.mu.Unlock()
		return nil, ErrDuplicateSubmission
	}
	if verr := validatePayment(info); verr != nil {
		m.mu.Unlock()
		return nil, verr
	}
	m.sess.payment = info
	m.inflight = true
	sess := m.sess
	m.mu.Unlock()

	if err := m.simulateProcessing(ctx); err != nil {
		m.mu.Lock()
		m.inflight = false
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight = false

	now := time.Now().UTC()
	order := Order{
		ID:        newOrderID(now),
		CreatedAt: now,
		Items:     sess.items,
		Shipping:  sess.shipping,
		Method:    sess.method,
		Total:     cart.Round2(totalWithMethod(sess.items, sess.method)),
	}
	m.orders = append(m.orders, order)
	if err := appendOrder(ctx, m.store, order); err != nil {
		// in-memory history stays authoritative
		m.log.Warn("order history persistence degraded", zap.Error(err))
	}
	if m.publisher != nil {
		m.publisher.PublishOrderCompleted(ctx, order)
	}
	m.cart.Clear(ctx)
	sess.step = StepConfirmed

	m.log.Info("order confirmed",
		zap.String("order_id", order.ID),
		zap.String("shipping_method", string(order.Method)),
		zap.Float64("total", order.Total),
	)
	return &order, nil
}

func (m *Machine) simulateProcessing(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validatePayment(info PaymentInfo) *ValidationError {
	var missing []string
	require := func(field, value string) {
		if value == "" {
			missing = append(missing, field)
		}
	}
	require("card_number", info.CardNumber)
	require("expiry", info.Expiry)
	require("cvv", info.CVV)
	require("cardholder_name", info.CardholderName)
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// totalWithMethod prices the checkout with the selected method's fixed
// shipping price, superseding the cart's flat-fee estimate.
func totalWithMethod(items []cart.LineItem, method Method) float64 {
	sub := cart.Subtotal(items)
	return sub + method.Price() + sub*cart.TaxRate
}

// View is the session state exposed to the presentation layer.
type View struct {
	Step         int             `json:"step"`
	Items        []cart.LineItem `json:"items"`
	ShippingInfo ShippingInfo    `json:"shipping"`
	Method       Method          `json:"shipping_method,omitempty"`
	Subtotal     float64         `json:"subtotal"`
	ShippingCost float64         `json:"shipping_cost"`
	Tax          float64         `json:"tax"`
	GrandTotal   float64         `json:"grand_total"`
}

// CurrentView reports the active session, or ErrNoActiveSession.
// Before a method is selected the shipping cost is the cart estimate;
// from step 2 on the method price is authoritative.
func (m *Machine) CurrentView() (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return View{}, ErrNoActiveSession
	}
	s := m.sess
	sub := cart.Subtotal(s.items)
	shipping := cart.ShippingCost(s.items)
	if s.step >= StepShippingMethod {
		shipping = s.method.Price()
	}
	tax := sub * cart.TaxRate
	return View{
		Step:         s.step,
		Items:        s.items,
		ShippingInfo: s.shipping,
		Method:       s.method,
		Subtotal:     cart.Round2(sub),
		ShippingCost: cart.Round2(shipping),
		Tax:          cart.Round2(tax),
		GrandTotal:   cart.Round2(sub + shipping + tax),
	}, nil
}

// Orders returns the order history, oldest first.
func (m *Machine) Orders() []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, len(m.orders))
	copy(out, m.orders)
	return out
}
