package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"iq-home/invoice_backend/internal/domain/invoice"
)

const fkViolation = "23503"

// Store implements invoice.Store on top of Postgres. Line totals are
// derived here, inside the write path, so a persisted row is always
// consistent with its driving fields.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store { return &Store{db: db} }

const invoiceCols = "id, customer, date, created_at, updated_at"

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var date time.Time
	if err := row.Scan(&inv.ID, &inv.Customer, &date, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Date = invoice.Date{Time: date}
	inv.Items = []invoice.LineItem{}
	return &inv, nil
}

const lineItemCols = "id, invoice_id, item_name, unit_price, quantity, tax_percent, discount_percent, total, created_at, updated_at"

func scanLineItem(row pgx.Row) (*invoice.LineItem, error) {
	var it invoice.LineItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ItemName, &it.UnitPrice, &it.Quantity,
		&it.TaxPercent, &it.DiscountPercent, &it.Total, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) CreateInvoice(ctx context.Context, in invoice.CreateInvoiceInput) (*invoice.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.Pool.QueryRow(ctx,
		`INSERT INTO invoices (customer, date) VALUES ($1, $2) RETURNING `+invoiceCols,
		in.Customer, in.Date.Time)
	return scanInvoice(row)
}

func (s *Store) GetInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invoice.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := s.ListLineItems(ctx, &id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+invoiceCols+` FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []invoice.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.ListLineItems(ctx, nil)
	if err != nil {
		return nil, err
	}
	attachItems(invoices, items)
	return invoices, nil
}

// attachItems groups items under their owning invoices. The two listing
// queries are separate statements with no shared snapshot, so an item
// whose invoice committed in between is dropped rather than misfiled.
func attachItems(invoices []invoice.Invoice, items []invoice.LineItem) {
	index := make(map[int64]int, len(invoices))
	for i := range invoices {
		index[invoices[i].ID] = i
	}
	for _, it := range items {
		i, ok := index[it.InvoiceID]
		if !ok {
			continue
		}
		invoices[i].Items = append(invoices[i].Items, it)
	}
}

func (s *Store) UpdateInvoice(ctx context.Context, id int64, in invoice.UpdateInvoiceInput) (*invoice.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cur, err := scanInvoice(tx.QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invoice.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	customer := cur.Customer
	date := cur.Date
	if in.Customer != nil {
		customer = *in.Customer
	}
	if in.Date != nil {
		date = *in.Date
	}

	updated, err := scanInvoice(tx.QueryRow(ctx,
		`UPDATE invoices SET customer = $1, date = $2, updated_at = now()
		 WHERE id = $3 RETURNING `+invoiceCols,
		customer, date.Time, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	items, err := s.ListLineItems(ctx, &id)
	if err != nil {
		return nil, err
	}
	updated.Items = items
	return updated, nil
}

// DeleteInvoice removes an invoice; the FK cascade removes its items in
// the same statement's transaction.
func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return invoice.ErrNotFound
	}
	return nil
}

func (s *Store) NextInvoiceID(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM invoices`).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) CreateLineItem(ctx context.Context, in invoice.CreateLineItemInput) (*invoice.LineItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	total := invoice.ComputeTotal(in.UnitPrice, in.Quantity, in.TaxPercent, in.DiscountPercent)
	row := s.db.Pool.QueryRow(ctx,
		`INSERT INTO line_items (invoice_id, item_name, unit_price, quantity, tax_percent, discount_percent, total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+lineItemCols,
		in.InvoiceID, in.ItemName, in.UnitPrice, in.Quantity, in.TaxPercent, in.DiscountPercent, total)
	it, err := scanLineItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return nil, invoice.ErrInvoiceMissing
		}
		return nil, err
	}
	return it, nil
}

func (s *Store) GetLineItem(ctx context.Context, id int64) (*invoice.LineItem, error) {
	row := s.db.Pool.QueryRow(ctx, `SELECT `+lineItemCols+` FROM line_items WHERE id = $1`, id)
	it, err := scanLineItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invoice.ErrNotFound
	}
	return it, err
}

func (s *Store) ListLineItems(ctx context.Context, invoiceID *int64) ([]invoice.LineItem, error) {
	query := `SELECT ` + lineItemCols + ` FROM line_items ORDER BY id`
	args := []any{}
	if invoiceID != nil {
		query = `SELECT ` + lineItemCols + ` FROM line_items WHERE invoice_id = $1 ORDER BY id`
		args = append(args, *invoiceID)
	}
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []invoice.LineItem{}
	for rows.Next() {
		it, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateLineItem merges the partial input over the current row and
// recomputes the total from the merged fields, even when the change did
// not touch a price-driving field.
func (s *Store) UpdateLineItem(ctx context.Context, id int64, in invoice.UpdateLineItemInput) (*invoice.LineItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cur, err := scanLineItem(tx.QueryRow(ctx,
		`SELECT `+lineItemCols+` FROM line_items WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invoice.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.ItemName != nil {
		cur.ItemName = *in.ItemName
	}
	if in.UnitPrice != nil {
		cur.UnitPrice = *in.UnitPrice
	}
	if in.Quantity != nil {
		cur.Quantity = *in.Quantity
	}
	if in.TaxPercent != nil {
		cur.TaxPercent = *in.TaxPercent
	}
	if in.DiscountPercent != nil {
		cur.DiscountPercent = *in.DiscountPercent
	}
	cur.Total = invoice.ComputeTotal(cur.UnitPrice, cur.Quantity, cur.TaxPercent, cur.DiscountPercent)

	updated, err := scanLineItem(tx.QueryRow(ctx,
		`UPDATE line_items
		 SET item_name = $1, unit_price = $2, quantity = $3, tax_percent = $4,
		     discount_percent = $5, total = $6, updated_at = now()
		 WHERE id = $7 RETURNING `+lineItemCols,
		cur.ItemName, cur.UnitPrice, cur.Quantity, cur.TaxPercent, cur.DiscountPercent, cur.Total, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteLineItem(ctx context.Context, id int64) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM line_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return invoice.ErrNotFound
	}
	return nil
}
