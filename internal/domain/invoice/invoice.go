package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a path-addressed invoice or line item
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvoiceMissing is returned when a line item references a
	// nonexistent invoice.
	ErrInvoiceMissing = errors.New("invoice not found")
)

// Violations maps a field name to a validation message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// ValidationError carries field-level messages for a rejected write.
type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Date is a calendar date carried as "2006-01-02" on the wire.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(time.DateOnly) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return errors.New("empty date")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	*d = parsed
	return nil
}

type Invoice struct {
	ID        int64      `json:"id"`
	Customer  string     `json:"customer"`
	Date      Date       `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []LineItem `json:"items"`
}

type LineItem struct {
	ID              int64     `json:"id"`
	InvoiceID       int64     `json:"invoice_id"`
	ItemName        string    `json:"item_name"`
	UnitPrice       float64   `json:"unit_price"`
	Quantity        int       `json:"quantity"`
	TaxPercent      float64   `json:"tax_percent"`
	DiscountPercent float64   `json:"discount_percent"`
	Total           float64   `json:"total"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ComputeTotal derives a line total from its four driving fields.
// No rounding is applied; formatting is left to presentation.
func ComputeTotal(unitPrice float64, quantity int, taxPercent, discountPercent float64) float64 {
	subtotal := unitPrice * float64(quantity)
	tax := subtotal * taxPercent / 100
	discount := subtotal * discountPercent / 100
	return subtotal + tax - discount
}

// CreateInvoiceInput is a validated invoice creation request.
type CreateInvoiceInput struct {
	Customer string
	Date     Date
}

// UpdateInvoiceInput holds a partial invoice update; nil fields are left
// unchanged.
type UpdateInvoiceInput struct {
	Customer *string
	Date     *Date
}

// CreateLineItemInput is a validated line item creation request. Total is
// never part of the input; the store derives it.
type CreateLineItemInput struct {
	InvoiceID       int64
	ItemName        string
	UnitPrice       float64
	Quantity        int
	TaxPercent      float64
	DiscountPercent float64
}

// UpdateLineItemInput holds a partial line item update; nil fields are left
// unchanged. The total is recomputed from the merged field set.
type UpdateLineItemInput struct {
	ItemName        *string
	UnitPrice       *float64
	Quantity        *int
	TaxPercent      *float64
	DiscountPercent *float64
}

func (in CreateInvoiceInput) Validate() error {
	v := Violations{}
	if strings.TrimSpace(in.Customer) == "" {
		v["customer"] = "required"
	}
	if in.Date.IsZero() {
		v["date"] = "required"
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

func (in UpdateInvoiceInput) Validate() error {
	v := Violations{}
	if in.Customer != nil && strings.TrimSpace(*in.Customer) == "" {
		v["customer"] = "required"
	}
	if in.Date != nil && in.Date.IsZero() {
		v["date"] = "required"
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

func (in CreateLineItemInput) Validate() error {
	v := Violations{}
	if in.InvoiceID <= 0 {
		v["invoice_id"] = "required"
	}
	if strings.TrimSpace(in.ItemName) == "" {
		v["item_name"] = "required"
	}
	if in.UnitPrice < 0 {
		v["unit_price"] = "must_not_be_negative"
	}
	if in.Quantity < 1 {
		v["quantity"] = "must_be_positive"
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

func (in UpdateLineItemInput) Validate() error {
	v := Violations{}
	if in.ItemName != nil && strings.TrimSpace(*in.ItemName) == "" {
		v["item_name"] = "required"
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		v["unit_price"] = "must_not_be_negative"
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		v["quantity"] = "must_be_positive"
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// Store is the persistence contract for invoices and their line items.
// Implementations must keep each write atomic, derive line totals via
// ComputeTotal on every create/update, and cascade invoice deletion to the
// owned items.
type Store interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, in UpdateInvoiceInput) (*Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	NextInvoiceID(ctx context.Context) (int64, error)

	CreateLineItem(ctx context.Context, in CreateLineItemInput) (*LineItem, error)
	GetLineItem(ctx context.Context, id int64) (*LineItem, error)
	// ListLineItems returns items for one invoice, or every item when
	// invoiceID is nil. The unfiltered form is for internal use; the API
	// layer never exposes it.
	ListLineItems(ctx context.Context, invoiceID *int64) ([]LineItem, error)
	UpdateLineItem(ctx context.Context, id int64, in UpdateLineItemInput) (*LineItem, error)
	DeleteLineItem(ctx context.Context, id int64) error
}
