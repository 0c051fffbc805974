package products

import (
	"strings"

	"github.com/stockdesk/stockdesk/internal/shared"
)

func (s *Service) validate(p Product, initialQuantity int64) error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.Validationf("product name is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return shared.Validationf("product sku is required")
	}
	if !ValidUnit(p.Unit) {
		return shared.Validationf("unit must be one of: %s", strings.Join(Units, ", "))
	}
	if initialQuantity < 0 {
		return shared.Validationf("quantity must not be negative")
	}
	return nil
}
