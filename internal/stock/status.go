// Package stock classifies on-hand quantities against the low-stock threshold.
package stock

// Status describes the stock level of a product.
type Status string

const (
	// StatusInStock means quantity is at or above the threshold.
	StatusInStock Status = "in_stock"
	// StatusLowStock means quantity is positive but below the threshold.
	StatusLowStock Status = "low_stock"
	// StatusOutOfStock means quantity is exactly zero.
	StatusOutOfStock Status = "out_of_stock"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold int64 = 10

// Classify derives a Status from a quantity. A zero quantity is always
// OutOfStock, even when the threshold is zero or negative.
func Classify(quantity, threshold int64) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity < threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
