package cart

import (
	"math"
	"sync"

	"github.com/amoree/storefront/internal/catalog"
)

// DefaultStep is the fallback quantity increment when no valid step is
// configured. Produce is sold by fractional weight, so it is a quarter
// unit rather than 1.
const DefaultStep = 0.25

// Line is one product in the cart with its accumulated quantity and the
// unit price snapshotted when the product was added.
type Line struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return round2(l.UnitPrice * l.Quantity)
}

// Cart is an ordered collection of lines keyed by SKU. Quantities move in
// increments of the configured step and are rounded to two decimals on
// every mutation so repeated increments never accumulate float drift.
// Carts are shared between concurrent requests carrying the same session
// cookie (two tabs, a double-click), so every operation takes the mutex.
type Cart struct {
	mu          sync.Mutex
	defaultStep float64
	lines       []Line
}

func New(defaultStep float64) *Cart {
	if !validStep(defaultStep) {
		defaultStep = DefaultStep
	}
	return &Cart{defaultStep: defaultStep}
}

// validStep rejects the garbage steps the UI history used to pass through
// unchecked: zero, negatives, NaN and infinities.
func validStep(step float64) bool {
	return step > 0 && !math.IsNaN(step) && !math.IsInf(step, 0)
}

func (c *Cart) step(step float64) float64 {
	if !validStep(step) {
		return c.defaultStep
	}
	return step
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Add increments the product's line by step, inserting a new line when the
// product is not in the cart yet. A non-positive or non-finite step falls
// back to the cart's default increment.
func (c *Cart) Add(p catalog.Product, step float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	step = c.step(step)
	for i := range c.lines {
		if c.lines[i].SKU == p.SKU {
			c.lines[i].Quantity = round2(c.lines[i].Quantity + step)
			return
		}
	}
	c.lines = append(c.lines, Line{
		SKU:       p.SKU,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Unit:      p.Unit,
		Quantity:  round2(step),
	})
}

// Decrement subtracts step from the matching line, removing the line
// entirely once its quantity reaches zero. Unknown SKUs are a no-op.
func (c *Cart) Decrement(sku string, step float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	step = c.step(step)
	for i := range c.lines {
		if c.lines[i].SKU != sku {
			continue
		}
		q := round2(c.lines[i].Quantity - step)
		if q <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = q
		return
	}
}

func (c *Cart) Remove(sku string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].SKU == sku {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Quantity returns 0 for SKUs not in the cart.
func (c *Cart) Quantity(sku string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.SKU == sku {
			return l.Quantity
		}
	}
	return 0
}

// Total is recomputed from the lines on every call. It is never cached, so
// it cannot go stale after a removal or a recalled order.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.UnitPrice * l.Quantity
	}
	return round2(total)
}

// Replace swaps the whole cart content, used when recalling a prior order.
func (c *Cart) Replace(lines []Line) {
	fresh := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l.Quantity = round2(l.Quantity)
		fresh = append(fresh, l)
	}

	c.mu.Lock()
	c.lines = fresh
	c.mu.Unlock()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Lines returns a copy; callers must not be able to mutate the ledger
// behind its back.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
