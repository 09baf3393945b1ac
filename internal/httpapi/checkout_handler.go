package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/amoree/storefront/internal/cart"
	"github.com/amoree/storefront/internal/checkout"
	"github.com/amoree/storefront/internal/schedule"
)

type CheckoutHandler struct {
	composer  *checkout.Composer
	carts     *cart.Store
	slotRules schedule.Rules
	timeout   time.Duration
	now       func() time.Time
}

func NewCheckoutHandler(composer *checkout.Composer, carts *cart.Store, rules schedule.Rules, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		composer:  composer,
		carts:     carts,
		slotRules: rules,
		timeout:   timeout,
		now:       time.Now,
	}
}

const dateLayout = "2006-01-02"

// ListSlots answers the bookable delivery times for a date. An empty list
// is a normal answer, not an error: it means the shop can no longer deliver
// that day.
func (h *CheckoutHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing date")
		return
	}
	date, err := time.ParseInLocation(dateLayout, raw, h.now().Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	slots := schedule.Slots(date, h.now(), h.slotRules)
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":  raw,
		"slots": out,
	})
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone        string `json:"phone"`
		DeliveryDate string `json:"deliveryDate"`
		DeliverySlot string `json:"deliverySlot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	date, err := time.ParseInLocation(dateLayout, body.DeliveryDate, h.now().Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deliveryDate, want YYYY-MM-DD")
		return
	}
	slot, err := schedule.Parse(body.DeliverySlot)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deliverySlot, want HH:MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session := sessionID(w, r)
	c := h.carts.Get(session)

	res, err := h.composer.Checkout(ctx, c, IdentityFrom(r.Context()), checkout.Request{
		Phone:        body.Phone,
		DeliveryDate: date,
		Slot:         slot,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidPhone),
			errors.Is(err, checkout.ErrPastDate),
			errors.Is(err, checkout.ErrSlotUnavailable):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrNoSlots):
			writeError(w, http.StatusConflict, "deliveries are closed for that date")
		default:
			writeError(w, http.StatusBadGateway, "failed to save order, your cart is untouched")
		}
		return
	}

	// only a persisted order releases the session's cart
	h.carts.Drop(session)

	writeJSON(w, http.StatusCreated, res)
}
