package handlers

import (
	"iq-home/invoice_backend/internal/domain/invoice"
	"iq-home/invoice_backend/internal/domain/invoice/pdf"
)

type Handlers struct {
	Store invoice.Store
	PDF   pdf.Generator
}

func New(store invoice.Store, gen pdf.Generator) *Handlers {
	return &Handlers{
		Store: store,
		PDF:   gen,
	}
}
