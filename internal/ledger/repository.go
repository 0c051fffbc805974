package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockdesk/stockdesk/internal/platform/db"
	"github.com/stockdesk/stockdesk/internal/shared"
)

// Repository persists the stock ledger in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID int64) (ProductState, error)
	InsertMovement(ctx context.Context, m Movement) (Movement, error)
	UpdateProductQuantity(ctx context.Context, productID, quantity int64) error
	RecomputeQuantities(ctx context.Context) ([]Drift, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction. The row
// lock taken by GetProductForUpdate serialises concurrent movements on the
// same product; movements on different products do not block each other.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// ListMovements returns the newest movements joined with product name and
// unit. The type filter is always bound as a parameter, never interpolated.
func (r *Repository) ListMovements(ctx context.Context, filter ListFilter) ([]MovementRow, error) {
	if r == nil {
		return nil, errors.New("ledger repository not initialised")
	}
	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	query := `SELECT sm.id, sm.product_id, sm.type, sm.quantity, sm.reason, sm.notes, sm.created_at, p.name, p.unit
FROM stock_movements sm
JOIN products p ON p.id = sm.product_id`
	args := []any{}
	if filter.Type != "" {
		query += ` WHERE sm.type = $1`
		args = append(args, string(filter.Type))
	}
	query += fmt.Sprintf(` ORDER BY sm.created_at DESC, sm.id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []MovementRow{}
	for rows.Next() {
		var row MovementRow
		var reason, notes *string
		if err := rows.Scan(&row.ID, &row.ProductID, &row.Type, &row.Quantity, &reason, &notes, &row.CreatedAt, &row.ProductName, &row.Unit); err != nil {
			return nil, err
		}
		if reason != nil {
			row.Reason = *reason
		}
		if notes != nil {
			row.Notes = *notes
		}
		movements = append(movements, row)
	}
	return movements, rows.Err()
}

func (r *txRepository) GetProductForUpdate(ctx context.Context, productID int64) (ProductState, error) {
	var state ProductState
	err := r.tx.QueryRow(ctx, `SELECT id, name, quantity FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&state.ID, &state.Name, &state.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductState{}, fmt.Errorf("product %d: %w", productID, shared.ErrNotFound)
		}
		return ProductState{}, err
	}
	return state, nil
}

func (r *txRepository) InsertMovement(ctx context.Context, m Movement) (Movement, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_movements (product_id, type, quantity, reason, notes)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
RETURNING id, created_at`, m.ProductID, string(m.Type), m.Quantity, m.Reason, m.Notes).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Movement{}, err
	}
	return m, nil
}

func (r *txRepository) UpdateProductQuantity(ctx context.Context, productID, quantity int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE products SET quantity = $1 WHERE id = $2`, quantity, productID)
	return err
}

// RecomputeQuantities rewrites every stored quantity that diverged from the
// signed ledger sum and reports what changed.
func (r *txRepository) RecomputeQuantities(ctx context.Context) ([]Drift, error) {
	rows, err := r.tx.Query(ctx, `WITH sums AS (
	SELECT p.id,
	       p.quantity AS stored,
	       COALESCE(SUM(CASE WHEN sm.type = 'in' THEN sm.quantity ELSE -sm.quantity END), 0) AS derived
	FROM products p
	LEFT JOIN stock_movements sm ON sm.product_id = p.id
	GROUP BY p.id, p.quantity
)
UPDATE products SET quantity = sums.derived
FROM sums
WHERE products.id = sums.id AND products.quantity <> sums.derived
RETURNING products.id, sums.stored, sums.derived`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drift := []Drift{}
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.ProductID, &d.Stored, &d.Derived); err != nil {
			return nil, err
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}
