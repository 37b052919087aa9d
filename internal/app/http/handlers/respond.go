package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"iq-home/invoice_backend/internal/app/http/httpx"
	"iq-home/invoice_backend/internal/domain/invoice"
)

// writeError maps domain errors onto the wire. Anything unrecognized is a
// storage-level failure and must not leak details.
func writeError(w http.ResponseWriter, err error) {
	var verr *invoice.ValidationError
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, invoice.ErrInvoiceMissing):
		httpx.JSONError(w, http.StatusBadRequest, "invoice_not_found", nil)
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Fields)
	default:
		log.Printf("handler: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invoice.ErrNotFound
	}
	return id, nil
}
