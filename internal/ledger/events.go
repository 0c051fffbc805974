package ledger

import (
	"context"
	"time"

	"github.com/stockdesk/stockdesk/internal/stock"
)

// StockAlertEvent is emitted after a committed movement leaves a product low
// or out of stock.
type StockAlertEvent struct {
	ProductID   int64        `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int64        `json:"quantity"`
	Status      stock.Status `json:"status"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// Notifier receives stock alert events. Delivery is best effort; a failed
// notification never fails the movement that triggered it.
type Notifier interface {
	StockStatusChanged(ctx context.Context, evt StockAlertEvent) error
}
