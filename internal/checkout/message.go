package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/amoree/storefront/internal/order"
)

const divider = "--------------------------\n"

// OrderMessage renders the customer-facing checkout summary. The text is
// deterministic for a given order so tests (and the shop owners) can rely
// on it byte for byte.
func OrderMessage(o *order.Order, customerName string, subtotal, shipping float64) string {
	var b strings.Builder

	b.WriteString("*NUEVO PEDIDO - AMOREE*\n")
	fmt.Fprintf(&b, "Cliente: %s\n", customerName)
	fmt.Fprintf(&b, "Tel: %s\n", o.Phone)
	b.WriteString(divider)
	b.WriteString("\n")

	writeLines(&b, o.Lines)

	b.WriteString("\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "Subtotal estimado: %s\n", money(subtotal))
	fmt.Fprintf(&b, "Envío: %s\n", money(shipping))
	fmt.Fprintf(&b, "*TOTAL APROXIMADO: %s*\n\n", money(o.Total))
	fmt.Fprintf(&b, "Entrega: %s a las %s\n\n", o.DeliveryDate.Format("02/01/2006"), o.DeliverySlot)
	b.WriteString("_Nota: Amoree confirmará el peso real en báscula antes de enviar._")

	return b.String()
}

// TicketMessage renders the final sales ticket the admin sends after
// confirming real weights.
func TicketMessage(o *order.Order) string {
	var b strings.Builder

	b.WriteString("*TICKET DE VENTA - AMOREE*\n")
	b.WriteString(divider)
	writeLines(&b, o.Lines)
	b.WriteString(divider)
	fmt.Fprintf(&b, "*TOTAL FINAL: %s*", money(o.Total))

	return b.String()
}

func writeLines(b *strings.Builder, lines []order.Line) {
	for _, l := range lines {
		fmt.Fprintf(b, "- %v %s x %s = %s\n", l.Quantity, l.Unit, l.Name, money(l.Subtotal()))
	}
}

// WhatsAppURL builds the messaging handoff link; the text rides in the
// query string, URL-encoded.
func WhatsAppURL(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
