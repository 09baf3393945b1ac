package catalog

// Product is the canonical shape of one catalog row. The productos table
// kept its Spanish column names through every revision of the shop; the
// mapping to these fields happens once, in the repository, and nothing
// above it ever branches on a column name.
type Product struct {
	ID        int64   `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"imageUrl"`
	Category  string  `json:"category"`
}
