package suppliers

import (
	"strings"

	"github.com/stockdesk/stockdesk/internal/shared"
)

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return shared.Validationf("supplier name is required")
	}
	if strings.TrimSpace(sup.Phone) == "" {
		return shared.Validationf("supplier phone is required")
	}
	return nil
}
