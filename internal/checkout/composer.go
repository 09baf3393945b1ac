package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amoree/storefront/internal/auth"
	"github.com/amoree/storefront/internal/cart"
	"github.com/amoree/storefront/internal/catalog"
	"github.com/amoree/storefront/internal/order"
	"github.com/amoree/storefront/internal/schedule"
)

// Validation failures, all raised before any store call so nothing needs
// rolling back.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidPhone    = errors.New("contact phone must have at least 10 digits")
	ErrPastDate        = errors.New("delivery date is in the past")
	ErrNoSlots         = errors.New("no delivery slots left for that date")
	ErrSlotUnavailable = errors.New("requested delivery slot is not available")

	ErrSignInRequired  = errors.New("sign in to recall a previous order")
	ErrNoPreviousOrder = errors.New("no previous order to recall")
)

type OrderStore interface {
	Insert(ctx context.Context, o *order.Order) error
	LatestByEmail(ctx context.Context, email string) (*order.Order, error)
}

type PriceLookup interface {
	GetBySKUs(ctx context.Context, skus []string) (map[string]catalog.Product, error)
}

type Config struct {
	StoreWhatsApp         string
	CustomerPhonePrefix   string
	FreeShippingThreshold float64
	ShippingFee           float64
	SlotRules             schedule.Rules
}

// Composer turns a cart into a persisted order plus the WhatsApp handoff
// message. It owns every checkout validation; the HTTP layer only maps its
// sentinel errors to status codes.
type Composer struct {
	orders  OrderStore
	catalog PriceLookup
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

func NewComposer(orders OrderStore, cat PriceLookup, cfg Config, logger *zap.Logger) *Composer {
	return &Composer{
		orders:  orders,
		catalog: cat,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

type Request struct {
	Phone        string
	DeliveryDate time.Time
	Slot         schedule.Slot
}

type Result struct {
	Order       *order.Order `json:"order"`
	Message     string       `json:"message"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

// Shipping returns the flat surcharge for a subtotal: free at zero (empty
// cart) and at or above the free-shipping threshold, the configured fee in
// between.
func (c *Composer) Shipping(subtotal float64) float64 {
	if subtotal > 0 && subtotal < c.cfg.FreeShippingThreshold {
		return c.cfg.ShippingFee
	}
	return 0
}

// Checkout validates, persists the order snapshot and composes the handoff
// message. On a store failure the cart is left untouched so the customer
// can simply retry.
func (c *Composer) Checkout(ctx context.Context, cr *cart.Cart, id auth.Identity, req Request) (*Result, error) {
	if cr.Empty() {
		return nil, ErrEmptyCart
	}
	if !ValidPhone(req.Phone) {
		return nil, ErrInvalidPhone
	}

	now := c.now()
	if beforeToday(req.DeliveryDate, now) {
		return nil, ErrPastDate
	}
	slots := schedule.Slots(req.DeliveryDate, now, c.cfg.SlotRules)
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	if !schedule.Contains(slots, req.Slot) {
		return nil, ErrSlotUnavailable
	}

	subtotal := cr.Total()
	shipping := c.Shipping(subtotal)

	o := &order.Order{
		CustomerEmail: id.Email,
		Phone:         req.Phone,
		Lines:         orderLines(cr.Lines()),
		Total:         subtotal + shipping,
		Status:        order.StatusPending,
		DeliveryDate:  req.DeliveryDate,
		DeliverySlot:  req.Slot.String(),
	}

	if err := c.orders.Insert(ctx, o); err != nil {
		c.logger.Error("failed to save order",
			zap.String("customer", id.Email),
			zap.Error(err))
		return nil, fmt.Errorf("save order: %w", err)
	}

	msg := OrderMessage(o, id.DisplayName(), subtotal, shipping)

	c.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("customer", id.Email),
		zap.Float64("total", o.Total))

	return &Result{
		Order:       o,
		Message:     msg,
		WhatsAppURL: WhatsAppURL(c.cfg.StoreWhatsApp, msg),
	}, nil
}

// Recall replaces the cart with the customer's most recent order, repriced
// against the current catalog. Lines whose product has since disappeared
// keep their stored price rather than being dropped. Returns the contact
// phone stored on that order so the UI can prefill it.
func (c *Composer) Recall(ctx context.Context, cr *cart.Cart, id auth.Identity) (string, error) {
	if id.IsGuest() {
		return "", ErrSignInRequired
	}

	last, err := c.orders.LatestByEmail(ctx, id.Email)
	if err != nil {
		return "", fmt.Errorf("load previous order: %w", err)
	}
	if last == nil || len(last.Lines) == 0 {
		return "", ErrNoPreviousOrder
	}

	skus := make([]string, 0, len(last.Lines))
	for _, l := range last.Lines {
		skus = append(skus, l.SKU)
	}
	current, err := c.catalog.GetBySKUs(ctx, skus)
	if err != nil {
		return "", fmt.Errorf("reprice previous order: %w", err)
	}

	lines := make([]cart.Line, 0, len(last.Lines))
	for _, l := range last.Lines {
		line := cart.Line{
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
		}
		if p, ok := current[l.SKU]; ok {
			line.Name = p.Name
			line.UnitPrice = p.UnitPrice
			line.Unit = p.Unit
		}
		lines = append(lines, line)
	}
	cr.Replace(lines)

	return last.Phone, nil
}

func orderLines(lines []cart.Line) []order.Line {
	out := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, order.Line{
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
		})
	}
	return out
}

// ValidPhone accepts anything carrying at least 10 digits; separators and a
// leading + are ignored.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

func beforeToday(selected, now time.Time) bool {
	selected = selected.In(now.Location())
	y1, m1, d1 := selected.Date()
	y2, m2, d2 := now.Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location()).
		Before(time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location()))
}
