package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockdesk/stockdesk/internal/platform/httpx"
)

// Handler serves the /stock-movements endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.record)
}

type recordForm struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=in out"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"omitempty,max=255"`
	Notes     string `json:"notes" validate:"omitempty,max=1000"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var form recordForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	movement, err := h.service.Record(r.Context(), RecordInput{
		ProductID:      form.ProductID,
		Type:           MovementType(form.Type),
		Quantity:       form.Quantity,
		Reason:         form.Reason,
		Notes:          form.Notes,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.logger.Warn("record movement failed", "error", err, "product_id", form.ProductID)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movement)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Type: MovementType(r.URL.Query().Get("type"))}
	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list movements failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Reconcile recomputes stored quantities from the ledger. Mounted under the
// admin routes, and reused by the scheduled integrity job.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	drift, err := h.service.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("reconcile failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"fixed": len(drift),
		"drift": drift,
	})
}
