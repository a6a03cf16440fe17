package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"billmint/internal/models"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      InvoiceRepository
	tenantID  uuid.UUID
	invoiceID uuid.UUID
	context   context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepository(mock)
	suite.tenantID = uuid.New()
	suite.invoiceID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) buildInvoice() *models.Invoice {
	issueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	invoice := &models.Invoice{
		ID:              suite.invoiceID,
		TenantID:        suite.tenantID,
		InvoiceNumber:   "INV-2026-03-0001",
		OrganizationID:  uuid.New(),
		CustomerID:      uuid.New(),
		GSTType:         "CGST_SGST",
		Subtotal:        decimal.NewFromInt(200),
		DiscountPercent: decimal.NewFromInt(10),
		DiscountAmount:  decimal.NewFromInt(20),
		TaxableAmount:   decimal.NewFromInt(180),
		CGST:            decimal.RequireFromString("16.2"),
		SGST:            decimal.RequireFromString("16.2"),
		IGST:            decimal.Zero,
		TaxAmount:       decimal.RequireFromString("32.4"),
		TotalAmount:     decimal.RequireFromString("212.4"),
		Advance:         decimal.NewFromInt(50),
		Received:        decimal.Zero,
		DueAmount:       decimal.RequireFromString("162.4"),
		ReturnAmount:    decimal.Zero,
		Status:          models.InvoiceStatusPending,
		IssueDate:       issueDate,
		DueDate:         issueDate.AddDate(0, 0, 30),
	}
	invoice.Lines = []models.InvoiceLine{
		{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			ProductID: uuid.New(),
			Name:      "Urea 45kg",
			SKU:       "UREA-45",
			HSNSAC:    "31021000",
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(100),
			TaxRate:   18,
			Taxable:   decimal.NewFromInt(180),
			CGST:      decimal.RequireFromString("16.2"),
			SGST:      decimal.RequireFromString("16.2"),
			IGST:      decimal.Zero,
		},
	}
	return invoice
}

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := suite.buildInvoice()
	line := invoice.Lines[0]

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.TenantID, invoice.InvoiceNumber, invoice.OrganizationID, invoice.CustomerID, invoice.SellerGSTIN, invoice.BuyerGSTIN, invoice.GSTType, invoice.Subtotal, invoice.DiscountPercent, invoice.DiscountAmount, invoice.TaxableAmount, invoice.CGST, invoice.SGST, invoice.IGST, invoice.TaxAmount, invoice.TotalAmount, invoice.Advance, invoice.Received, invoice.DueAmount, invoice.ReturnAmount, invoice.Status, invoice.IssueDate, invoice.DueDate, invoice.PaidDate, []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO invoice_lines`).
		WithArgs(line.ID, line.InvoiceID, line.ProductID, line.Name, line.SKU, line.HSNSAC, line.Quantity, line.UnitPrice, line.TaxRate, line.Taxable, line.CGST, line.SGST, line.IGST).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(line.Quantity, invoice.TenantID, line.ProductID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestCreate_InsufficientStock() {
	invoice := suite.buildInvoice()
	line := invoice.Lines[0]

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.TenantID, invoice.InvoiceNumber, invoice.OrganizationID, invoice.CustomerID, invoice.SellerGSTIN, invoice.BuyerGSTIN, invoice.GSTType, invoice.Subtotal, invoice.DiscountPercent, invoice.DiscountAmount, invoice.TaxableAmount, invoice.CGST, invoice.SGST, invoice.IGST, invoice.TaxAmount, invoice.TotalAmount, invoice.Advance, invoice.Received, invoice.DueAmount, invoice.ReturnAmount, invoice.Status, invoice.IssueDate, invoice.DueDate, invoice.PaidDate, []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO invoice_lines`).
		WithArgs(line.ID, line.InvoiceID, line.ProductID, line.Name, line.SKU, line.HSNSAC, line.Quantity, line.UnitPrice, line.TaxRate, line.Taxable, line.CGST, line.SGST, line.IGST).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE products`).
		WithArgs(line.Quantity, invoice.TenantID, line.ProductID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, invoice)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insufficient stock")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus_Success() {
	paidDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`
		UPDATE invoices
		SET status = \$1, paid_date = \$2, updated_at = NOW\(\)
		WHERE tenant_id = \$3 AND id = \$4
	`).WithArgs(models.InvoiceStatusPaid, &paidDate, suite.tenantID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.tenantID, suite.invoiceID, models.InvoiceStatusPaid, &paidDate)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus_NotFound() {
	suite.mock.ExpectExec(`
		UPDATE invoices
		SET status = \$1, paid_date = \$2, updated_at = NOW\(\)
		WHERE tenant_id = \$3 AND id = \$4
	`).WithArgs(models.InvoiceStatusPaid, (*time.Time)(nil), suite.tenantID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.context, suite.tenantID, suite.invoiceID, models.InvoiceStatusPaid, nil)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *InvoiceRepoTestSuite) TestGenerateInvoiceNumber_SequencesPerMonth() {
	issueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`INSERT INTO invoice_sequences`).
		WithArgs(suite.tenantID, "2026-03").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(8))

	number, err := suite.repo.GenerateInvoiceNumber(suite.context, suite.tenantID, "INV", issueDate)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INV-2026-03-0008", number)
}

func (suite *InvoiceRepoTestSuite) TestGenerateInvoiceNumber_FirstOfMonth() {
	issueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`INSERT INTO invoice_sequences`).
		WithArgs(suite.tenantID, "2026-04").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(1))

	number, err := suite.repo.GenerateInvoiceNumber(suite.context, suite.tenantID, "BILL", issueDate)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BILL-2026-04-0001", number)
}

func (suite *InvoiceRepoTestSuite) TestListUnpaid_SingleQuery() {
	sellerGSTIN := "27AAAAA1234A1Z5"
	buyerGSTIN := "27BBBBB5678B1Z3"
	suite.mock.ExpectQuery(`SELECT .* FROM invoices WHERE tenant_id = \$1 AND status IN \('pending', 'overdue'\)`).
		WithArgs(suite.tenantID, 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "invoice_number", "organization_id", "customer_id", "seller_gstin", "buyer_gstin", "gst_type", "subtotal", "discount_percent", "discount_amount", "taxable_amount", "cgst", "sgst", "igst", "tax_amount", "total_amount", "advance", "received", "due_amount", "return_amount", "status", "issue_date", "due_date", "paid_date", "shipping_address", "created_at", "updated_at"}).
			AddRow(suite.invoiceID, suite.tenantID, "INV-2026-03-0001", uuid.New(), uuid.New(), &sellerGSTIN, &buyerGSTIN, "CGST_SGST", decimal.NewFromInt(200), decimal.Zero, decimal.Zero, decimal.NewFromInt(200), decimal.NewFromInt(18), decimal.NewFromInt(18), decimal.Zero, decimal.NewFromInt(36), decimal.NewFromInt(236), decimal.Zero, decimal.Zero, decimal.NewFromInt(236), decimal.Zero, models.InvoiceStatusPending, time.Now(), time.Now(), (*time.Time)(nil), []byte(nil), time.Now(), time.Now()))

	invoices, err := suite.repo.ListUnpaid(suite.context, suite.tenantID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoices, 1)
	assert.Equal(suite.T(), models.InvoiceStatusPending, invoices[0].Status)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue() {
	asOf := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW\(\)
		WHERE tenant_id = \$1 AND status = 'pending' AND due_date < \$2
	`).WithArgs(suite.tenantID, asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	marked, err := suite.repo.MarkOverdue(suite.context, suite.tenantID, asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), marked)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_WrongTenant() {
	otherTenant := uuid.New()

	suite.mock.ExpectQuery(`SELECT .* FROM invoices WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(otherTenant, suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)

	invoice, err := suite.repo.GetByID(suite.context, otherTenant, suite.invoiceID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), invoice)
}
