package httpx

import (
	"errors"
	"net/http"

	"github.com/stockdesk/stockdesk/internal/shared"
)

// RespondError maps domain errors to HTTP status codes. Unrecognised errors
// become 500s without leaking internals to the client.
func RespondError(w http.ResponseWriter, err error) {
	var vErr *shared.ValidationError
	var sErr *shared.StoreError

	switch {
	case errors.As(err, &vErr):
		Error(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrInsufficientStock):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		Error(w, http.StatusConflict, err.Error())
	case shared.IsTimeout(err):
		Error(w, http.StatusGatewayTimeout, "store timeout: outcome unknown")
	case errors.As(err, &sErr):
		Error(w, http.StatusInternalServerError, sErr.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
