package products

import (
	"time"

	"github.com/stockdesk/stockdesk/internal/stock"
)

// Units lists the accepted units of measure.
var Units = []string{"kg", "sack", "pack", "pcs", "bottle", "box"}

// ValidUnit reports whether unit is one of Units.
func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// Product represents a product entity. Quantity is derived from the stock
// ledger; nothing in this package writes it directly.
type Product struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	CategoryID     *int64     `json:"category_id"`
	SupplierID     *int64     `json:"supplier_id"`
	Unit           string     `json:"unit"`
	Quantity       int64      `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Row joins a product with its category and supplier names plus the derived
// stock status, so list callers need no secondary lookups.
type Row struct {
	Product
	CategoryName *string      `json:"category_name"`
	SupplierName *string      `json:"supplier_name"`
	Status       stock.Status `json:"status"`
}
