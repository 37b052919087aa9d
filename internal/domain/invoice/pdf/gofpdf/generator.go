package gofpdf

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"iq-home/invoice_backend/internal/domain/invoice"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) Generate(inv invoice.Invoice, items []invoice.LineItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice #%d", inv.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice #%d", inv.ID))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Customer: "+inv.Customer)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+inv.Date.String())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(60, 7, "Item")
	pdf.Cell(18, 7, "Qty")
	pdf.Cell(28, 7, "Unit Price")
	pdf.Cell(22, 7, "Tax %")
	pdf.Cell(28, 7, "Discount %")
	pdf.Cell(28, 7, "Total")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	var grand float64
	for _, it := range items {
		pdf.Cell(60, 6, trim(it.ItemName, 38))
		pdf.Cell(18, 6, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(28, 6, fmt.Sprintf("%.2f", it.UnitPrice))
		pdf.Cell(22, 6, fmt.Sprintf("%g", it.TaxPercent))
		pdf.Cell(28, 6, fmt.Sprintf("%g", it.DiscountPercent))
		pdf.Cell(28, 6, fmt.Sprintf("%.2f", it.Total))
		pdf.Ln(6)
		// sum what each row displays, so the grand total always equals
		// the printed rows
		grand += math.Round(it.Total*100) / 100
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(156, 7, "Grand Total")
	pdf.Cell(28, 7, fmt.Sprintf("%.2f", grand))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
