package order

import (
	"encoding/json"
	"time"
)

// Line is one line item as persisted inside a pedido's detalle_pedido
// column. It serializes with the current column vocabulary and tolerates
// every alias the shop's revision history left behind (SKU vs sku,
// "$ VENTA" vs precio_venta, Artículo vs nombre), so old orders decode
// through one normalization step instead of scattered fallbacks.
type Line struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"nombre"`
	UnitPrice float64 `json:"precio_venta"`
	Unit      string  `json:"unidad"`
	Quantity  float64 `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * l.Quantity
}

type lineAliases struct {
	SKU       string  `json:"sku"`
	LegacySKU string  `json:"SKU"`
	Name      string  `json:"nombre"`
	LegacyNam string  `json:"Artículo"`
	Price     float64 `json:"precio_venta"`
	LegacyPrc float64 `json:"$ VENTA"`
	Unit      string  `json:"unidad"`
	LegacyUnt string  `json:"Unidad"`
	Quantity  float64 `json:"quantity"`
}

func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.SKU = coalesce(raw.SKU, raw.LegacySKU)
	l.Name = coalesce(raw.Name, raw.LegacyNam)
	l.Unit = coalesce(raw.Unit, raw.LegacyUnt)
	l.UnitPrice = raw.Price
	if l.UnitPrice == 0 {
		l.UnitPrice = raw.LegacyPrc
	}
	l.Quantity = raw.Quantity
	return nil
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Order is one persisted pedido. Orders are owned by the database; the
// service never caches them beyond the current board view.
type Order struct {
	ID            int64     `json:"orderId"`
	CreatedAt     time.Time `json:"createdAt"`
	CustomerEmail string    `json:"customerEmail"`
	Phone         string    `json:"phone"`
	Lines         []Line    `json:"lines"`
	Total         float64   `json:"total"`
	Status        Status    `json:"status"`
	DeliveryDate  time.Time `json:"deliveryDate"`
	DeliverySlot  string    `json:"deliverySlot"`
}

// LinesTotal recomputes the order total from its line items.
func (o *Order) LinesTotal() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Subtotal()
	}
	return total
}
