package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"iq-home/invoice_backend/internal/app/http/httpx"
	"iq-home/invoice_backend/internal/domain/invoice"
)

type invoiceRequest struct {
	Customer *string `json:"customer"`
	Date     *string `json:"date"`
}

// parseDate reports a field-level violation instead of a decode failure so
// a malformed date surfaces like any other validation error.
func parseDate(raw *string, v invoice.Violations) *invoice.Date {
	if raw == nil {
		return nil
	}
	d, err := invoice.ParseDate(*raw)
	if err != nil {
		v["date"] = "invalid_format"
		return nil
	}
	return &d
}

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := invoice.Violations{}
	in := invoice.CreateInvoiceInput{}
	if req.Customer != nil {
		in.Customer = *req.Customer
	}
	if d := parseDate(req.Date, v); d != nil {
		in.Date = *d
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	inv, err := h.Store.CreateInvoice(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handlers) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := invoice.Violations{}
	in := invoice.UpdateInvoiceInput{
		Customer: req.Customer,
		Date:     parseDate(req.Date, v),
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	inv, err := h.Store.UpdateInvoice(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handlers) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.DeleteInvoice(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) NextInvoiceID(w http.ResponseWriter, r *http.Request) {
	next, err := h.Store.NextInvoiceID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"next_id": next})
}

func (h *Handlers) FullInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoice": inv,
		"items":   inv.Items,
	})
}

func (h *Handlers) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	pdfBytes, err := h.PDF.Generate(*inv, inv.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%d.pdf"`, inv.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
