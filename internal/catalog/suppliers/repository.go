package suppliers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists suppliers.
type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, phone, COALESCE(email, ''), COALESCE(address, ''), created_at
FROM suppliers
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []Supplier{}
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO suppliers (name, phone, email, address)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
RETURNING id, created_at`, supplier.Name, supplier.Phone, supplier.Email, supplier.Address).
		Scan(&supplier.ID, &supplier.CreatedAt)
	if err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}
