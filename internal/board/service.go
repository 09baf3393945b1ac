package board

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/amoree/storefront/internal/checkout"
	"github.com/amoree/storefront/internal/order"
)

var (
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidLine     = errors.New("line index out of range")
)

// UpdateFailedError reports a status change the store rejected. By the time
// the caller sees it the local view has already been rolled back to the
// pre-change snapshot.
type UpdateFailedError struct {
	OrderID   int64
	Previous  order.Status
	Attempted order.Status
	Err       error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("update order %d to %s failed, reverted to %s: %v", e.OrderID, e.Attempted, e.Previous, e.Err)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.Err
}

type OrderStore interface {
	List(ctx context.Context, limit int) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status order.Status) error
	UpdateLines(ctx context.Context, orderID int64, lines []order.Line, total float64, status order.Status) error
}

// Service is the admin order board: a local, sorted view over the most
// recent orders with optimistic status changes and pre-finalize quantity
// tweaks (the shop weighs produce after the order comes in, so quantities
// routinely change between checkout and delivery).
type Service struct {
	store               OrderStore
	customerPhonePrefix string
	limit               int
	logger              *zap.Logger

	mu   sync.Mutex
	view []order.Order
}

func NewService(store OrderStore, customerPhonePrefix string, limit int, logger *zap.Logger) *Service {
	return &Service{
		store:               store,
		customerPhonePrefix: customerPhonePrefix,
		limit:               limit,
		logger:              logger,
	}
}

// Refresh reloads the board from the store and applies the status-priority
// sort. The previous view is kept when the load fails.
func (s *Service) Refresh(ctx context.Context) error {
	orders, err := s.store.List(ctx, s.limit)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	order.SortForBoard(orders)

	s.mu.Lock()
	s.view = orders
	s.mu.Unlock()
	return nil
}

// Orders returns a copy of the current view. Line slices are copied too:
// a later AdjustLine must not write into lines a caller is still reading.
func (s *Service) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]order.Order, len(s.view))
	for i, o := range s.view {
		out[i] = cloneOrder(o)
	}
	return out
}

func cloneOrder(o order.Order) order.Order {
	lines := make([]order.Line, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

func (s *Service) find(orderID int64) (int, bool) {
	for i := range s.view {
		if s.view[i].ID == orderID {
			return i, true
		}
	}
	return 0, false
}

// SetStatus applies the change to the local view first, then persists it.
// A store failure rolls the view back to the snapshot and surfaces exactly
// one UpdateFailedError.
func (s *Service) SetStatus(ctx context.Context, orderID int64, status order.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	i, ok := s.find(orderID)
	if !ok {
		s.mu.Unlock()
		return order.ErrNotFound
	}
	previous := s.view[i].Status
	s.view[i].Status = status
	s.mu.Unlock()

	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		s.mu.Lock()
		if i, ok := s.find(orderID); ok {
			s.view[i].Status = previous
		}
		s.mu.Unlock()

		s.logger.Warn("status update rolled back",
			zap.Int64("order_id", orderID),
			zap.String("attempted", string(status)),
			zap.Error(err))
		return &UpdateFailedError{OrderID: orderID, Previous: previous, Attempted: status, Err: err}
	}
	return nil
}

// AdjustLine changes one line's quantity in the local view only and
// recomputes the order total. Nothing is persisted until Finalize.
func (s *Service) AdjustLine(orderID int64, lineIndex int, quantity float64) error {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(orderID)
	if !ok {
		return order.ErrNotFound
	}
	if lineIndex < 0 || lineIndex >= len(s.view[i].Lines) {
		return ErrInvalidLine
	}

	s.view[i].Lines[lineIndex].Quantity = round2(quantity)
	s.view[i].Total = round2(s.view[i].LinesTotal())
	return nil
}

// Ticket is the outcome of a finalized order: the persisted state plus the
// outbound sales-ticket message for the customer.
type Ticket struct {
	Order       order.Order `json:"order"`
	Message     string      `json:"message"`
	WhatsAppURL string      `json:"whatsappUrl"`
}

// Finalize persists the possibly adjusted lines and total with the
// Delivered status, then builds the ticket handoff. A store failure aborts
// without touching the local status.
func (s *Service) Finalize(ctx context.Context, orderID int64) (*Ticket, error) {
	s.mu.Lock()
	i, ok := s.find(orderID)
	if !ok {
		s.mu.Unlock()
		return nil, order.ErrNotFound
	}
	snapshot := cloneOrder(s.view[i])
	s.mu.Unlock()

	if err := s.store.UpdateLines(ctx, orderID, snapshot.Lines, snapshot.Total, order.StatusDelivered); err != nil {
		return nil, fmt.Errorf("finalize order %d: %w", orderID, err)
	}

	s.mu.Lock()
	if i, ok := s.find(orderID); ok {
		s.view[i].Status = order.StatusDelivered
		snapshot = cloneOrder(s.view[i])
	}
	s.mu.Unlock()

	msg := checkout.TicketMessage(&snapshot)
	s.logger.Info("order finalized",
		zap.Int64("order_id", orderID),
		zap.Float64("total", snapshot.Total))

	return &Ticket{
		Order:       snapshot,
		Message:     msg,
		WhatsAppURL: checkout.WhatsAppURL(s.customerPhonePrefix+snapshot.Phone, msg),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
