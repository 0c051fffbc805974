package products

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockdesk/stockdesk/internal/platform/httpx"
)

// Handler serves the /products endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CreateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	var expiration *time.Time
	if form.ExpirationDate != "" {
		parsed, err := time.Parse("2006-01-02", form.ExpirationDate)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "expiration_date must use the YYYY-MM-DD format")
			return
		}
		expiration = &parsed
	}

	created, err := h.service.Create(r.Context(), Product{
		Name:           form.Name,
		SKU:            form.SKU,
		CategoryID:     form.CategoryID,
		SupplierID:     form.SupplierID,
		Unit:           form.Unit,
		ExpirationDate: expiration,
	}, form.Quantity)
	if err != nil {
		h.logger.Warn("create product failed", "error", err, "sku", form.SKU)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}
