package order

import "strings"

// Status is the pedido lifecycle state. The stored values are the Spanish
// strings the pedidos table has always used; constants carry the canonical
// vocabulary so business code never spells them out.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusDelivered Status = "Entregado"
	StatusPaid      Status = "Pagado"
	StatusCancelled Status = "Cancelado"
)

// Weight is the board sort priority. Unknown statuses sink to the bottom
// instead of failing.
func (s Status) Weight() int {
	switch s {
	case StatusPending:
		return 1
	case StatusDelivered:
		return 2
	case StatusPaid:
		return 3
	case StatusCancelled:
		return 4
	default:
		return 5
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes stored or requested status values. It tolerates
// casing drift and the English aliases some revisions wrote; anything it
// does not recognize passes through unchanged and sorts last.
func ParseStatus(v string) Status {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "pendiente", "pending", "":
		return StatusPending
	case "entregado", "delivered":
		return StatusDelivered
	case "pagado", "paid":
		return StatusPaid
	case "cancelado", "cancelled", "canceled":
		return StatusCancelled
	}
	return Status(v)
}
