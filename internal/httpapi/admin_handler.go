package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amoree/storefront/internal/board"
	"github.com/amoree/storefront/internal/order"
)

type AdminHandler struct {
	board   *board.Service
	timeout time.Duration
}

func NewAdminHandler(b *board.Service, timeout time.Duration) *AdminHandler {
	return &AdminHandler{board: b, timeout: timeout}
}

func (h *AdminHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid orderId")
		return 0, false
	}
	return id, true
}

// ListOrders refreshes the board from the store and returns the sorted
// view. When the store is unreachable the stale view is not silently
// served; the admin sees the failure and can retry.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.board.Refresh(ctx); err != nil {
		writeError(w, http.StatusBadGateway, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, h.board.Orders())
}

func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.board.SetStatus(ctx, id, order.ParseStatus(body.Status))
	if err != nil {
		var failed *board.UpdateFailedError
		switch {
		case errors.Is(err, board.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.As(err, &failed):
			// local view already rolled back; tell the admin once
			writeError(w, http.StatusBadGateway, "status change failed and was reverted")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) AdjustLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}
	lineIndex, err := strconv.Atoi(chi.URLParam(r, "lineIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lineIndex")
		return
	}

	var body struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.board.AdjustLine(id, lineIndex, body.Quantity); err != nil {
		switch {
		case errors.Is(err, board.ErrInvalidQuantity), errors.Is(err, board.ErrInvalidLine):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to adjust line")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.board.Orders())
}

func (h *AdminHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ticket, err := h.board.Finalize(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to finalize order")
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}
