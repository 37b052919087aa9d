package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"iq-home/invoice_backend/internal/app/http/httpx"
	"iq-home/invoice_backend/internal/domain/invoice"
)

// lineItemRequest covers both create and partial update. Total is absent
// on purpose: it is derived in the store and never trusted from a client,
// same for invoice_id on update.
type lineItemRequest struct {
	InvoiceID       *int64   `json:"invoice_id"`
	ItemName        *string  `json:"item_name"`
	UnitPrice       *float64 `json:"unit_price"`
	Quantity        *int     `json:"quantity"`
	TaxPercent      *float64 `json:"tax_percent"`
	DiscountPercent *float64 `json:"discount_percent"`
}

// ListLineItems returns items for the invoice named by the `invoice` query
// param. Without the filter the response is an empty list, never the whole
// table.
func (h *Handlers) ListLineItems(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("invoice")
	if raw == "" {
		httpx.JSON(w, http.StatusOK, []invoice.LineItem{})
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed",
			invoice.Violations{"invoice": "must_be_integer"})
		return
	}
	items, err := h.Store.ListLineItems(r.Context(), &id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handlers) CreateLineItem(w http.ResponseWriter, r *http.Request) {
	var req lineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	in := invoice.CreateLineItemInput{Quantity: 1}
	if req.InvoiceID != nil {
		in.InvoiceID = *req.InvoiceID
	}
	if req.ItemName != nil {
		in.ItemName = *req.ItemName
	}
	if req.UnitPrice != nil {
		in.UnitPrice = *req.UnitPrice
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	if req.TaxPercent != nil {
		in.TaxPercent = *req.TaxPercent
	}
	if req.DiscountPercent != nil {
		in.DiscountPercent = *req.DiscountPercent
	}

	it, err := h.Store.CreateLineItem(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, it)
}

func (h *Handlers) GetLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := h.Store.GetLineItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *Handlers) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req lineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	// invoice_id is immutable; a supplied value is dropped here
	in := invoice.UpdateLineItemInput{
		ItemName:        req.ItemName,
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		TaxPercent:      req.TaxPercent,
		DiscountPercent: req.DiscountPercent,
	}

	it, err := h.Store.UpdateLineItem(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *Handlers) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.DeleteLineItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
