package handlers_test

import (
	"context"
	"sync"
	"time"

	"iq-home/invoice_backend/internal/domain/invoice"
)

// fakeStore is an in-memory invoice.Store with the same write-path
// semantics as the Postgres implementation: totals derived on every
// create/update, cascade delete, ascending-id ordering.
type fakeStore struct {
	mu       sync.Mutex
	invoices map[int64]invoice.Invoice
	items    map[int64]invoice.LineItem
	lastID   int64
}

var _ invoice.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices: map[int64]invoice.Invoice{},
		items:    map[int64]invoice.LineItem{},
	}
}

func (s *fakeStore) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *fakeStore) CreateInvoice(_ context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	inv := invoice.Invoice{
		ID:        s.nextID(),
		Customer:  in.Customer,
		Date:      in.Date,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     []invoice.LineItem{},
	}
	s.invoices[inv.ID] = inv
	return &inv, nil
}

func (s *fakeStore) itemsOf(invoiceID int64) []invoice.LineItem {
	items := []invoice.LineItem{}
	for id := int64(1); id <= s.lastID; id++ {
		if it, ok := s.items[id]; ok && it.InvoiceID == invoiceID {
			items = append(items, it)
		}
	}
	return items
}

func (s *fakeStore) GetInvoice(_ context.Context, id int64) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}
	inv.Items = s.itemsOf(id)
	return &inv, nil
}

func (s *fakeStore) ListInvoices(_ context.Context) ([]invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []invoice.Invoice{}
	for id := int64(1); id <= s.lastID; id++ {
		if inv, ok := s.invoices[id]; ok {
			inv.Items = s.itemsOf(id)
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateInvoice(_ context.Context, id int64, in invoice.UpdateInvoiceInput) (*invoice.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}
	if in.Customer != nil {
		inv.Customer = *in.Customer
	}
	if in.Date != nil {
		inv.Date = *in.Date
	}
	inv.UpdatedAt = time.Now()
	s.invoices[id] = inv
	inv.Items = s.itemsOf(id)
	return &inv, nil
}

func (s *fakeStore) DeleteInvoice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return invoice.ErrNotFound
	}
	delete(s.invoices, id)
	for itemID, it := range s.items {
		if it.InvoiceID == id {
			delete(s.items, itemID)
		}
	}
	return nil
}

func (s *fakeStore) NextInvoiceID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var max int64
	for id := range s.invoices {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

func (s *fakeStore) CreateLineItem(_ context.Context, in invoice.CreateLineItemInput) (*invoice.LineItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[in.InvoiceID]; !ok {
		return nil, invoice.ErrInvoiceMissing
	}
	now := time.Now()
	it := invoice.LineItem{
		ID:              s.nextID(),
		InvoiceID:       in.InvoiceID,
		ItemName:        in.ItemName,
		UnitPrice:       in.UnitPrice,
		Quantity:        in.Quantity,
		TaxPercent:      in.TaxPercent,
		DiscountPercent: in.DiscountPercent,
		Total:           invoice.ComputeTotal(in.UnitPrice, in.Quantity, in.TaxPercent, in.DiscountPercent),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.items[it.ID] = it
	return &it, nil
}

func (s *fakeStore) GetLineItem(_ context.Context, id int64) (*invoice.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}
	return &it, nil
}

func (s *fakeStore) ListLineItems(_ context.Context, invoiceID *int64) ([]invoice.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []invoice.LineItem{}
	for id := int64(1); id <= s.lastID; id++ {
		it, ok := s.items[id]
		if !ok {
			continue
		}
		if invoiceID == nil || it.InvoiceID == *invoiceID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (s *fakeStore) UpdateLineItem(_ context.Context, id int64, in invoice.UpdateLineItemInput) (*invoice.LineItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}
	if in.ItemName != nil {
		it.ItemName = *in.ItemName
	}
	if in.UnitPrice != nil {
		it.UnitPrice = *in.UnitPrice
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.TaxPercent != nil {
		it.TaxPercent = *in.TaxPercent
	}
	if in.DiscountPercent != nil {
		it.DiscountPercent = *in.DiscountPercent
	}
	it.Total = invoice.ComputeTotal(it.UnitPrice, it.Quantity, it.TaxPercent, it.DiscountPercent)
	it.UpdatedAt = time.Now()
	s.items[id] = it
	return &it, nil
}

func (s *fakeStore) DeleteLineItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return invoice.ErrNotFound
	}
	delete(s.items, id)
	return nil
}
