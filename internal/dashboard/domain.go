// Package dashboard serves the derived read views behind the dashboard
// widgets. Everything here is computed fresh per request.
package dashboard

import (
	"time"

	"github.com/stockdesk/stockdesk/internal/stock"
)

// Stats is the GET /dashboard/stats payload. Field names are part of the API
// contract consumed by the frontend.
type Stats struct {
	TotalProducts   int64 `json:"totalProducts"`
	LowStock        int64 `json:"lowStock"`
	TotalCategories int64 `json:"totalCategories"`
	RecentActivity  int64 `json:"recentActivity"`
}

// LowStockProduct is one row of the low-stock listing.
type LowStockProduct struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	SKU      string       `json:"sku"`
	Unit     string       `json:"unit"`
	Quantity int64        `json:"quantity"`
	Status   stock.Status `json:"status"`
}

// Activity is one row of the recent-activity listing.
type Activity struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
