package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the aggregate queries the dashboard relies on.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
	CountRecentMovements(ctx context.Context, since time.Time) (int64, error)
	LowStockProducts(ctx context.Context, threshold int64, limit int) ([]LowStockProduct, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *repository) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE quantity < $1`, threshold).Scan(&count)
	return count, err
}

func (r *repository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}

func (r *repository) CountRecentMovements(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *repository) LowStockProducts(ctx context.Context, threshold int64, limit int) ([]LowStockProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, sku, unit, quantity
FROM products
WHERE quantity < $1
ORDER BY quantity ASC, id ASC
LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []LowStockProduct{}
	for rows.Next() {
		var item LowStockProduct
		if err := rows.Scan(&item.ID, &item.Name, &item.SKU, &item.Unit, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT sm.id, sm.product_id, p.name, sm.type, sm.quantity, COALESCE(sm.reason, ''), sm.created_at
FROM stock_movements sm
JOIN products p ON p.id = sm.product_id
ORDER BY sm.created_at DESC, sm.id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.Type, &a.Quantity, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
