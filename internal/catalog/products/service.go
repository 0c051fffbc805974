package products

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/ledger"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/stock"
)

// StockLedger records the opening stock of a new product. Quantities only
// change through the ledger so the movement log stays the source of truth.
type StockLedger interface {
	Record(ctx context.Context, input ledger.RecordInput) (ledger.Movement, error)
}

// Service wraps product persistence with validation and opening stock.
type Service struct {
	repo      Repository
	stock     StockLedger
	threshold int64
}

// NewService constructs Service.
func NewService(repo Repository, stockLedger StockLedger, lowStockThreshold int64) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = stock.DefaultLowStockThreshold
	}
	return &Service{repo: repo, stock: stockLedger, threshold: lowStockThreshold}
}

// List returns all products, newest first, with joined names and stock status.
func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.Store("products.list", err)
	}
	for i := range rows {
		rows[i].Status = stock.Classify(rows[i].Quantity, s.threshold)
	}
	return rows, nil
}

// Create validates and persists a product. A positive initial quantity is
// recorded as an inbound ledger movement rather than written to the product
// row, so the quantity invariant holds from the first row.
func (s *Service) Create(ctx context.Context, product Product, initialQuantity int64) (Product, error) {
	if err := s.validate(product, initialQuantity); err != nil {
		return Product{}, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, shared.Store("products.create", err)
	}

	if initialQuantity > 0 {
		if _, err := s.stock.Record(ctx, ledger.RecordInput{
			ProductID: created.ID,
			Type:      ledger.MovementIn,
			Quantity:  initialQuantity,
			Reason:    "Initial stock",
		}); err != nil {
			// The product row exists with quantity zero; the caller can retry
			// the opening stock as a regular stock-in.
			return Product{}, err
		}
		created.Quantity = initialQuantity
	}
	return created, nil
}
