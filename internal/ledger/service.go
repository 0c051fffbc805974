package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/stock"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListMovements(ctx context.Context, filter ListFilter) ([]MovementRow, error)
}

// IdempotencyPort guards retried movements against double application.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Service coordinates ledger operations.
type Service struct {
	repo        RepositoryPort
	idempotency IdempotencyPort
	notifier    Notifier
	threshold   int64
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	LowStockThreshold int64
}

// NewService builds Service.
func NewService(repo RepositoryPort, idem IdempotencyPort, notifier Notifier, cfg ServiceConfig) *Service {
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = stock.DefaultLowStockThreshold
	}
	return &Service{repo: repo, idempotency: idem, notifier: notifier, threshold: threshold}
}

const idempotencyModule = "ledger"

// Record appends a movement and updates the owning product quantity as one
// atomic unit. An outbound movement that would drive the quantity negative
// fails with ErrInsufficientStock and commits nothing.
func (s *Service) Record(ctx context.Context, input RecordInput) (Movement, error) {
	if input.ProductID <= 0 {
		return Movement{}, shared.Validationf("product_id is required")
	}
	if !input.Type.Valid() {
		return Movement{}, shared.Validationf("type must be %q or %q", MovementIn, MovementOut)
	}
	if input.Quantity <= 0 {
		return Movement{}, shared.Validationf("quantity must be a positive integer")
	}

	insertedKey := false
	if input.IdempotencyKey != "" {
		if _, err := uuid.Parse(input.IdempotencyKey); err != nil {
			return Movement{}, shared.Validationf("idempotency key must be a UUID")
		}
		if s.idempotency == nil {
			return Movement{}, shared.Validationf("idempotency keys are not supported")
		}
		if err := s.idempotency.CheckAndInsert(ctx, input.IdempotencyKey, idempotencyModule); err != nil {
			return Movement{}, err
		}
		insertedKey = true
	}

	var created Movement
	var after ProductState

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		delta := input.Quantity
		if input.Type == MovementOut {
			delta = -delta
		}
		newQty := product.Quantity + delta
		if newQty < 0 {
			return shared.ErrInsufficientStock
		}

		created, err = tx.InsertMovement(ctx, Movement{
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			Notes:     input.Notes,
		})
		if err != nil {
			return err
		}
		if err := tx.UpdateProductQuantity(ctx, input.ProductID, newQty); err != nil {
			return err
		}

		after = ProductState{ID: product.ID, Name: product.Name, Quantity: newQty}
		return nil
	})
	if err != nil {
		// On a timeout the commit outcome is unknown, so the key stays put.
		// Releasing it would let a retry double-apply a movement that landed.
		if insertedKey && !shared.IsTimeout(err) {
			_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
		}
		return Movement{}, shared.Store("ledger.record", err)
	}

	if s.notifier != nil {
		status := stock.Classify(after.Quantity, s.threshold)
		if status != stock.StatusInStock {
			_ = s.notifier.StockStatusChanged(ctx, StockAlertEvent{
				ProductID:   after.ID,
				ProductName: after.Name,
				Quantity:    after.Quantity,
				Status:      status,
				OccurredAt:  time.Now().UTC(),
			})
		}
	}
	return created, nil
}

// List returns the most recent movements, optionally filtered by type.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]MovementRow, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, shared.Validationf("type must be %q or %q", MovementIn, MovementOut)
	}
	rows, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, shared.Store("ledger.list", err)
	}
	return rows, nil
}

// Reconcile recomputes every product quantity from the ledger sum. Stored
// quantities only drift when movement rows bypass this package, which the
// design forbids; the report makes such writes visible.
func (s *Service) Reconcile(ctx context.Context) ([]Drift, error) {
	var drift []Drift
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		drift, err = tx.RecomputeQuantities(ctx)
		return err
	})
	if err != nil {
		return nil, shared.Store("ledger.reconcile", err)
	}
	return drift, nil
}
