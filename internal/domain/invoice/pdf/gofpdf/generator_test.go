package gofpdf

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"iq-home/invoice_backend/internal/domain/invoice"
)

// pdfText inflates the document's content streams so the drawn text can
// be asserted on.
func pdfText(t *testing.T, pdf []byte) string {
	t.Helper()
	var out bytes.Buffer
	rest := pdf
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		chunk := bytes.TrimLeft(rest[i+len("stream"):], "\r\n")
		end := bytes.Index(chunk, []byte("endstream"))
		if end < 0 {
			break
		}
		if r, err := zlib.NewReader(bytes.NewReader(chunk[:end])); err == nil {
			if b, err := io.ReadAll(r); err == nil {
				out.Write(b)
			}
			r.Close()
		}
		rest = chunk[end:]
	}
	return out.String()
}

func TestGenerate(t *testing.T) {
	date, err := invoice.ParseDate("2025-06-01")
	require.NoError(t, err)

	inv := invoice.Invoice{ID: 7, Customer: "ACME Corp", Date: date}
	items := []invoice.LineItem{
		{ID: 1, InvoiceID: 7, ItemName: "Cable", UnitPrice: 10, Quantity: 1, Total: 10.00},
		{ID: 2, InvoiceID: 7, ItemName: "Socket", UnitPrice: 20.50, Quantity: 1, Total: 20.50},
	}

	out, err := New().Generate(inv, items)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, "%PDF", string(out[:4]))

	text := pdfText(t, out)
	require.Contains(t, text, "Invoice #7")
	require.Contains(t, text, "ACME Corp")
	require.Contains(t, text, "Cable")
	require.Contains(t, text, "Grand Total")
	require.Contains(t, text, "30.50")
}

func TestGenerateGrandTotalMatchesDisplayedRows(t *testing.T) {
	date, err := invoice.ParseDate("2025-06-01")
	require.NoError(t, err)

	// stored totals carry sub-cent noise; each row prints 10.00, so the
	// grand total must print 20.00, not the 20.01 a raw sum would give
	inv := invoice.Invoice{ID: 3, Customer: "ACME Corp", Date: date}
	items := []invoice.LineItem{
		{ID: 1, InvoiceID: 3, ItemName: "A", UnitPrice: 5.002, Quantity: 2, Total: 10.004},
		{ID: 2, InvoiceID: 3, ItemName: "B", UnitPrice: 5.002, Quantity: 2, Total: 10.004},
	}

	out, err := New().Generate(inv, items)
	require.NoError(t, err)

	text := pdfText(t, out)
	require.Contains(t, text, "10.00")
	require.Contains(t, text, "20.00")
	require.NotContains(t, text, "20.01")
}

func TestGenerateEmptyInvoice(t *testing.T) {
	date, err := invoice.ParseDate("2025-06-01")
	require.NoError(t, err)

	out, err := New().Generate(invoice.Invoice{ID: 1, Customer: "Empty", Date: date}, nil)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(out[:4]))
}

func TestTrim(t *testing.T) {
	require.Equal(t, "short", trim("short", 10))
	require.Equal(t, "abcd...", trim("abcdefgh", 5))
}
