package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"iq-home/invoice_backend/internal/app/config"
	"iq-home/invoice_backend/internal/app/http/handlers"
	"iq-home/invoice_backend/internal/app/http/middleware"
	"iq-home/invoice_backend/internal/domain/invoice"
	"iq-home/invoice_backend/internal/domain/invoice/pdf"
)

func NewRouter(cfg config.Config, store invoice.Store, gen pdf.Generator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	h := handlers.New(store, gen)

	r.Get("/health", h.Health)

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.ListInvoices)
		r.Post("/", h.CreateInvoice)
		r.Get("/next-id", h.NextInvoiceID)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetInvoice)
			r.Put("/", h.UpdateInvoice)
			r.Delete("/", h.DeleteInvoice)
			r.Get("/full", h.FullInvoice)
			r.Get("/pdf", h.InvoicePDF)
		})
	})

	r.Route("/line-items", func(r chi.Router) {
		r.Get("/", h.ListLineItems)
		r.Post("/", h.CreateLineItem)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetLineItem)
			r.Put("/", h.UpdateLineItem)
			r.Delete("/", h.DeleteLineItem)
		})
	})

	// the internal frontend, a single static page over the API
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
