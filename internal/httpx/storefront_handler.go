package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/cart"
	"github.com/booksandchill/storefront/internal/catalog"
	"github.com/booksandchill/storefront/internal/checkout"
	"github.com/booksandchill/storefront/internal/favorites"
)

// StorefrontHandler exposes the core engine's command surface to the
// presentation layer. It never renders anything; responses are plain
// state the UI subscribes to.
type StorefrontHandler struct {
	Cart      *cart.Store
	Checkout  *checkout.Machine
	Favorites *favorites.Store
	Search    *LiveSearch
	Log       *zap.Logger

	products []catalog.Product
	reviews  []catalog.Review
	byID     map[string]catalog.Product
}

func NewStorefrontHandler(products []catalog.Product, reviews []catalog.Review) *StorefrontHandler {
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &StorefrontHandler{products: products, reviews: reviews, byID: byID}
}

func (h *StorefrontHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/products/{id}/related", h.getRelated)
	r.Get("/products/{id}/reviews", h.getReviews)
	r.Get("/suggest", h.suggest)
	r.Get("/search", h.liveSearch)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addToCart)
	r.Put("/cart/items/{id}", h.setQuantity)
	r.Delete("/cart/items/{id}", h.removeFromCart)

	r.Post("/checkout", h.startCheckout)
	r.Get("/checkout", h.getCheckout)
	r.Post("/checkout/shipping", h.submitShippingInfo)
	r.Post("/checkout/method", h.selectShippingMethod)
	r.Post("/checkout/back", h.goToPreviousStep)
	r.Post("/checkout/payment", h.submitPayment)
	r.Delete("/checkout", h.abandonCheckout)

	r.Get("/orders", h.listOrders)

	r.Get("/favorites", h.listFavorites)
	r.Post("/favorites/{id}", h.toggleFavorite)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, checkout.ErrUnknownMethod):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrDuplicateSubmission),
		errors.Is(err, checkout.ErrNoActiveSession),
		errors.Is(err, checkout.ErrWrongStep),
		errors.Is(err, checkout.ErrNoPreviousStep):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// ---- catalog ----

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := catalog.Criteria{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     catalog.SortKey(q.Get("sort")),
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid max_price"})
			return
		}
		criteria.MaxPrice = f
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid min_rating"})
			return
		}
		criteria.MinRating = f
	}
	writeJSON(w, http.StatusOK, catalog.Filter(h.products, criteria))
}

func (h *StorefrontHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.byID[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StorefrontHandler) getRelated(w http.ResponseWriter, r *http.Request) {
	p, ok := h.byID[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, catalog.Related(h.products, p))
}

func (h *StorefrontHandler) getReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.byID[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	reviews := catalog.ReviewsFor(h.reviews, id)
	if reviews == nil {
		reviews = []catalog.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *StorefrontHandler) suggest(w http.ResponseWriter, r *http.Request) {
	got := catalog.Suggest(h.products, r.URL.Query().Get("q"))
	if got == nil {
		got = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, got)
}

func (h *StorefrontHandler) liveSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Search.Query(r.URL.Query().Get("q")))
}

// ---- cart ----

type addToCartReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

type cartResp struct {
	Items      []cart.LineItem `json:"items"`
	Summary    cart.Summary    `json:"summary"`
	Subtotal   float64         `json:"subtotal"`
	Shipping   float64         `json:"shipping"`
	Tax        float64         `json:"tax"`
	GrandTotal float64         `json:"grand_total"`
}

func (h *StorefrontHandler) cartState() cartResp {
	items := h.Cart.Snapshot()
	return cartResp{
		Items:      items,
		Summary:    h.Cart.Summary(),
		Subtotal:   cart.Round2(cart.Subtotal(items)),
		Shipping:   cart.Round2(cart.ShippingCost(items)),
		Tax:        cart.Round2(cart.Tax(items)),
		GrandTotal: cart.Round2(cart.GrandTotal(items)),
	}
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *StorefrontHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p, ok := h.byID[req.ProductID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	// the unit price snapshot is the catalog price at add time
	if err := h.Cart.AddItem(r.Context(), p.ID, p.Price, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *StorefrontHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Cart.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *StorefrontHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.Cart.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, h.cartState())
}

// ---- checkout ----

func (h *StorefrontHandler) startCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.Checkout.Start(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.writeCheckoutView(w)
}

func (h *StorefrontHandler) getCheckout(w http.ResponseWriter, _ *http.Request) {
	h.writeCheckoutView(w)
}

func (h *StorefrontHandler) submitShippingInfo(w http.ResponseWriter, r *http.Request) {
	var info checkout.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Checkout.SubmitShippingInfo(info); err != nil {
		writeError(w, err)
		return
	}
	h.writeCheckoutView(w)
}

type selectMethodReq struct {
	Method checkout.Method `json:"method"`
}

func (h *StorefrontHandler) selectShippingMethod(w http.ResponseWriter, r *http.Request) {
	var req selectMethodReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Checkout.SelectShippingMethod(req.Method); err != nil {
		writeError(w, err)
		return
	}
	h.writeCheckoutView(w)
}

func (h *StorefrontHandler) goToPreviousStep(w http.ResponseWriter, _ *http.Request) {
	if err := h.Checkout.GoToPreviousStep(); err != nil {
		writeError(w, err)
		return
	}
	h.writeCheckoutView(w)
}

func (h *StorefrontHandler) submitPayment(w http.ResponseWriter, r *http.Request) {
	var info checkout.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	order, err := h.Checkout.SubmitPayment(r.Context(), info)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *StorefrontHandler) abandonCheckout(w http.ResponseWriter, _ *http.Request) {
	h.Checkout.Abandon()
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) writeCheckoutView(w http.ResponseWriter) {
	v, err := h.Checkout.CurrentView()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ---- orders & favorites ----

func (h *StorefrontHandler) listOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Checkout.Orders())
}

func (h *StorefrontHandler) listFavorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Favorites.List())
}

func (h *StorefrontHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.byID[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	added := h.Favorites.Toggle(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "favorite": added})
}
