package categories

import (
	"strings"

	"github.com/stockdesk/stockdesk/internal/shared"
)

func (s *Service) validate(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.Validationf("category name is required")
	}
	return nil
}
