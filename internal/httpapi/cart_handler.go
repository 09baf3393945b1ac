package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amoree/storefront/internal/cart"
	"github.com/amoree/storefront/internal/catalog"
	"github.com/amoree/storefront/internal/checkout"
)

type CartHandler struct {
	carts    *cart.Store
	catalog  catalog.Repository
	composer *checkout.Composer
	timeout  time.Duration
}

func NewCartHandler(carts *cart.Store, cat catalog.Repository, composer *checkout.Composer, timeout time.Duration) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat, composer: composer, timeout: timeout}
}

// cartView is what every cart endpoint answers with: the full ledger plus
// the derived totals, so the client never has to compute money itself.
type cartView struct {
	Lines    []cart.Line `json:"lines"`
	Subtotal float64     `json:"subtotal"`
	Shipping float64     `json:"shipping"`
	Total    float64     `json:"total"`
	Phone    string      `json:"phone,omitempty"`
}

func (h *CartHandler) view(c *cart.Cart, phone string) cartView {
	subtotal := c.Total()
	shipping := h.composer.Shipping(subtotal)
	return cartView{
		Lines:    c.Lines(),
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
		Phone:    phone,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(sessionID(w, r))
	writeJSON(w, http.StatusOK, h.view(c, ""))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKU  string  `json:"sku"`
		Step float64 `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.SKU == "" {
		writeError(w, http.StatusBadRequest, "missing sku")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.GetBySKU(ctx, body.SKU)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	c := h.carts.Get(sessionID(w, r))
	c.Add(p, body.Step)
	writeJSON(w, http.StatusOK, h.view(c, ""))
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if sku == "" {
		writeError(w, http.StatusBadRequest, "missing sku")
		return
	}

	var body struct {
		Step float64 `json:"step"`
	}
	// body is optional; an empty body means the default step
	_ = json.NewDecoder(r.Body).Decode(&body)

	c := h.carts.Get(sessionID(w, r))
	c.Decrement(sku, body.Step)
	writeJSON(w, http.StatusOK, h.view(c, ""))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if sku == "" {
		writeError(w, http.StatusBadRequest, "missing sku")
		return
	}

	c := h.carts.Get(sessionID(w, r))
	c.Remove(sku)
	writeJSON(w, http.StatusOK, h.view(c, ""))
}

// RecallLastOrder swaps the cart for the caller's previous order, repriced
// against today's catalog.
func (h *CartHandler) RecallLastOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c := h.carts.Get(sessionID(w, r))
	phone, err := h.composer.Recall(ctx, c, IdentityFrom(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrSignInRequired):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, checkout.ErrNoPreviousOrder):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to recall previous order")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.view(c, phone))
}
