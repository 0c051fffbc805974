package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockdesk/stockdesk/internal/shared"
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context) ([]Row, error)
	Create(ctx context.Context, product Product) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Row, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.name, p.sku, p.category_id, p.supplier_id, p.unit, p.quantity,
       p.expiration_date, p.created_at, c.name, s.name
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN suppliers s ON s.id = p.supplier_id
ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Row{}
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Name, &row.SKU, &row.CategoryID, &row.SupplierID, &row.Unit,
			&row.Quantity, &row.ExpirationDate, &row.CreatedAt, &row.CategoryName, &row.SupplierName); err != nil {
			return nil, err
		}
		products = append(products, row)
	}
	return products, rows.Err()
}

// Create inserts the product with quantity zero. Stock enters through the
// ledger, never through this insert.
func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO products (name, sku, category_id, supplier_id, unit, quantity, expiration_date)
VALUES ($1, $2, $3, $4, $5, 0, $6)
RETURNING id, created_at`,
		product.Name, product.SKU, product.CategoryID, product.SupplierID, product.Unit, product.ExpirationDate).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Product{}, fmt.Errorf("sku %q: %w", product.SKU, shared.ErrDuplicate)
			case "23503":
				return Product{}, fmt.Errorf("referenced category or supplier: %w", shared.ErrNotFound)
			}
		}
		return Product{}, err
	}
	product.Quantity = 0
	return product, nil
}
