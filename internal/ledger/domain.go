// Package ledger owns the append-only stock movement log and the derived
// product quantities. It is the only writer of movement rows and the only
// legitimate trigger for quantity changes.
package ledger

import "time"

// MovementType enumerates supported stock movements.
type MovementType string

const (
	// MovementIn represents an inbound movement.
	MovementIn MovementType = "in"
	// MovementOut represents an outbound movement.
	MovementOut MovementType = "out"
)

// Valid reports whether the movement type is recognised.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Movement is one immutable row of the stock ledger.
type Movement struct {
	ID        int64        `json:"id"`
	ProductID int64        `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int64        `json:"quantity"`
	Reason    string       `json:"reason,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// MovementRow joins a movement with its product for listings.
type MovementRow struct {
	Movement
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
}

// RecordInput describes a movement to append.
type RecordInput struct {
	ProductID int64
	Type      MovementType
	Quantity  int64
	Reason    string
	Notes     string

	// IdempotencyKey is optional. When set it must be a UUID and a repeated
	// key is rejected, so callers may safely retry after a timeout.
	IdempotencyKey string
}

// ListFilter narrows movement listings.
type ListFilter struct {
	Type  MovementType
	Limit int
}

// ProductState is the locked product row a movement applies to.
type ProductState struct {
	ID       int64
	Name     string
	Quantity int64
}

// Drift reports a product whose stored quantity diverged from the ledger sum.
type Drift struct {
	ProductID int64 `json:"product_id"`
	Stored    int64 `json:"stored_quantity"`
	Derived   int64 `json:"derived_quantity"`
}

// DefaultListLimit caps movement listings.
const DefaultListLimit = 50
