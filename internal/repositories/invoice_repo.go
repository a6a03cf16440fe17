package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"billmint/internal/models"
)

type InvoiceRepository interface {
	// Create persists the invoice with its lines and decrements product
	// stock in a single transaction. Stock that would go negative aborts
	// the whole save.
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	// ListUnpaid pages over pending and overdue invoices as one result
	// set, pending first.
	ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	GetByDateRange(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, status string, paidDate *time.Time) error
	GetGSTReportData(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]models.GSTReportRow, error)
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string, issueDate time.Time) (string, error)
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepository(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, tenant_id, invoice_number, organization_id, customer_id, seller_gstin, buyer_gstin, gst_type, subtotal, discount_percent, discount_amount, taxable_amount, cgst, sgst, igst, tax_amount, total_amount, advance, received, due_amount, return_amount, status, issue_date, due_date, paid_date, shipping_address, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	var shipping []byte
	if invoice.ShippingAddress != nil {
		var err error
		shipping, err = json.Marshal(invoice.ShippingAddress)
		if err != nil {
			return fmt.Errorf("marshal shipping address: %w", err)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (id, tenant_id, invoice_number, organization_id, customer_id, seller_gstin, buyer_gstin, gst_type, subtotal, discount_percent, discount_amount, taxable_amount, cgst, sgst, igst, tax_amount, total_amount, advance, received, due_amount, return_amount, status, issue_date, due_date, paid_date, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, invoice.ID, invoice.TenantID, invoice.InvoiceNumber, invoice.OrganizationID, invoice.CustomerID, invoice.SellerGSTIN, invoice.BuyerGSTIN, invoice.GSTType, invoice.Subtotal, invoice.DiscountPercent, invoice.DiscountAmount, invoice.TaxableAmount, invoice.CGST, invoice.SGST, invoice.IGST, invoice.TaxAmount, invoice.TotalAmount, invoice.Advance, invoice.Received, invoice.DueAmount, invoice.ReturnAmount, invoice.Status, invoice.IssueDate, invoice.DueDate, invoice.PaidDate, shipping)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, name, sku, hsn_sac, quantity, unit_price, tax_rate, taxable, cgst, sgst, igst)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	stockQuery := `
		UPDATE products
		SET current_stock = current_stock - $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND current_stock >= $1
	`
	for _, line := range invoice.Lines {
		if _, err := tx.Exec(ctx, lineQuery, line.ID, line.InvoiceID, line.ProductID, line.Name, line.SKU, line.HSNSAC, line.Quantity, line.UnitPrice, line.TaxRate, line.Taxable, line.CGST, line.SGST, line.IGST); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, stockQuery, line.Quantity, invoice.TenantID, line.ProductID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("insufficient stock for product %s", line.ProductID)
		}
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2`
	row := r.db.QueryRow(ctx, query, tenantID, id)
	invoice, err := scanInvoiceRow(row)
	if err != nil {
		return nil, err
	}

	lineQuery := `
		SELECT id, invoice_id, product_id, name, sku, hsn_sac, quantity, unit_price, tax_rate, taxable, cgst, sgst, igst
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.ProductID, &line.Name, &line.SKU, &line.HSNSAC, &line.Quantity, &line.UnitPrice, &line.TaxRate, &line.Taxable, &line.CGST, &line.SGST, &line.IGST); err != nil {
			return nil, err
		}
		invoice.Lines = append(invoice.Lines, line)
	}
	return invoice, rows.Err()
}

func (r *invoiceRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Return the stock the invoice consumed before dropping its lines.
	restoreQuery := `
		UPDATE products p
		SET current_stock = p.current_stock + l.quantity, updated_at = NOW()
		FROM invoice_lines l
		WHERE l.invoice_id = $1 AND p.id = l.product_id AND p.tenant_id = $2
	`
	if _, err := tx.Exec(ctx, restoreQuery, id, tenantID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *invoiceRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 ORDER BY issue_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListUnpaid(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND status IN ('pending', 'overdue') ORDER BY CASE status WHEN 'pending' THEN 0 ELSE 1 END, issue_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) GetByDateRange(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND issue_date BETWEEN $2 AND $3 ORDER BY issue_date DESC`
	rows, err := r.db.Query(ctx, query, tenantID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, status string, paidDate *time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_date = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, paidDate, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepo) GetGSTReportData(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]models.GSTReportRow, error) {
	query := `
		SELECT id, invoice_number, gst_type, seller_gstin, buyer_gstin, taxable_amount, cgst, sgst, igst, total_amount, status, issue_date
		FROM invoices
		WHERE tenant_id = $1 AND issue_date BETWEEN $2 AND $3
		ORDER BY issue_date
	`
	rows, err := r.db.Query(ctx, query, tenantID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []models.GSTReportRow
	for rows.Next() {
		var row models.GSTReportRow
		if err := rows.Scan(&row.InvoiceID, &row.InvoiceNumber, &row.GSTType, &row.SellerGSTIN, &row.BuyerGSTIN, &row.TaxableAmount, &row.CGST, &row.SGST, &row.IGST, &row.TotalAmount, &row.Status, &row.IssueDate); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// GenerateInvoiceNumber produces PREFIX-YYYY-MM-NNNN. The sequence is an
// atomic upsert per tenant and month; numbers are never reused, even after
// an invoice is deleted or when creates race.
func (r *invoiceRepo) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, prefix string, issueDate time.Time) (string, error) {
	yearMonth := issueDate.Format("2006-01")
	query := `
		INSERT INTO invoice_sequences (tenant_id, year_month, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year_month)
		DO UPDATE SET
			last_number = invoice_sequences.last_number + 1,
			updated_at = NOW()
		RETURNING last_number
	`
	var sequence int
	if err := r.db.QueryRow(ctx, query, tenantID, yearMonth).Scan(&sequence); err != nil {
		return "", fmt.Errorf("failed to generate invoice sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, yearMonth, sequence), nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error) {
	query := `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE tenant_id = $1 AND status = 'pending' AND due_date < $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanInvoiceRow(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var shipping []byte
	err := row.Scan(&invoice.ID, &invoice.TenantID, &invoice.InvoiceNumber, &invoice.OrganizationID, &invoice.CustomerID, &invoice.SellerGSTIN, &invoice.BuyerGSTIN, &invoice.GSTType, &invoice.Subtotal, &invoice.DiscountPercent, &invoice.DiscountAmount, &invoice.TaxableAmount, &invoice.CGST, &invoice.SGST, &invoice.IGST, &invoice.TaxAmount, &invoice.TotalAmount, &invoice.Advance, &invoice.Received, &invoice.DueAmount, &invoice.ReturnAmount, &invoice.Status, &invoice.IssueDate, &invoice.DueDate, &invoice.PaidDate, &shipping, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(shipping) > 0 {
		invoice.ShippingAddress = &models.Address{}
		if err := json.Unmarshal(shipping, invoice.ShippingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
	}
	return invoice, nil
}

func scanInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
