package pdf

import "iq-home/invoice_backend/internal/domain/invoice"

type Generator interface {
	Generate(inv invoice.Invoice, items []invoice.LineItem) ([]byte, error)
}
