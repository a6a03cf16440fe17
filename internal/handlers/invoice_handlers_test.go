package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"billmint/internal/billing"
	"billmint/internal/common"
	"billmint/internal/config"
	"billmint/internal/models"
	"billmint/internal/services"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req *services.CreateInvoiceRequest) (*models.Invoice, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) PreviewInvoice(ctx context.Context, tenantID uuid.UUID, req *services.CreateInvoiceRequest) (*services.InvoicePreview, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InvoicePreview), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceView(ctx context.Context, tenantID, invoiceID uuid.UUID) (*billing.InvoiceView, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceView), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetUnpaidInvoices(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, status string) error {
	args := m.Called(ctx, tenantID, invoiceID, status)
	return args.Error(0)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) GetGSTReport(ctx context.Context, tenantID uuid.UUID, startDate, endDate time.Time) ([]models.GSTReportRow, error) {
	args := m.Called(ctx, tenantID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GSTReportRow), args.Error(1)
}

func (m *MockInvoiceService) MarkOverdueInvoices(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type InvoiceHandlersTestSuite struct {
	suite.Suite
	echo       *echo.Echo
	invoiceSvc *MockInvoiceService
	handlers   *InvoiceHandlers
	tenantID   uuid.UUID
}

func (s *InvoiceHandlersTestSuite) SetupTest() {
	s.echo = echo.New()
	s.invoiceSvc = new(MockInvoiceService)
	s.handlers = NewInvoiceHandlers(s.invoiceSvc, nil, nil, config.DefaultBillingConfig())
	s.tenantID = uuid.New()
}

// newContext builds an echo context with the tenant already authenticated.
func (s *InvoiceHandlersTestSuite) newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), common.UserIDKey, uuid.New())
	ctx = context.WithValue(ctx, common.TenantIDKey, s.tenantID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *InvoiceHandlersTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp common.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func (s *InvoiceHandlersTestSuite) TestCreateInvoice_Success() {
	orgID := uuid.New()
	customerID := uuid.New()
	body := fmt.Sprintf(`{"organization_id":%q,"customer_id":%q,"lines":[{"product_id":%q,"quantity":2}]}`,
		orgID, customerID, uuid.New())

	invoice := &models.Invoice{ID: uuid.New(), InvoiceNumber: "INV-2026-03-0001", Status: models.InvoiceStatusPending}
	s.invoiceSvc.On("CreateInvoice", mock.Anything, s.tenantID, mock.AnythingOfType("*services.CreateInvoiceRequest")).Return(invoice, nil)

	c, rec := s.newContext(http.MethodPost, "/v1/invoices", body)
	s.Require().NoError(s.handlers.CreateInvoice(c))

	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), "INV-2026-03-0001")
	s.invoiceSvc.AssertExpectations(s.T())
}

func (s *InvoiceHandlersTestSuite) TestCreateInvoice_NoTenant() {
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.Require().NoError(s.handlers.CreateInvoice(c))

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.invoiceSvc.AssertNotCalled(s.T(), "CreateInvoice")
}

func (s *InvoiceHandlersTestSuite) TestCreateInvoice_InsufficientStock() {
	s.invoiceSvc.On("CreateInvoice", mock.Anything, s.tenantID, mock.Anything).
		Return(nil, fmt.Errorf("%w: product out of stock", billing.ErrInsufficientStock))

	c, rec := s.newContext(http.MethodPost, "/v1/invoices", `{"lines":[]}`)
	s.Require().NoError(s.handlers.CreateInvoice(c))

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("INSUFFICIENT_STOCK", s.errorCode(rec))
}

func (s *InvoiceHandlersTestSuite) TestCreateInvoice_TaxTypePending() {
	s.invoiceSvc.On("CreateInvoice", mock.Anything, s.tenantID, mock.Anything).
		Return(nil, billing.ErrTaxTypeUndetermined)

	c, rec := s.newContext(http.MethodPost, "/v1/invoices", `{"lines":[]}`)
	s.Require().NoError(s.handlers.CreateInvoice(c))

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("TAX_TYPE_PENDING", s.errorCode(rec))
}

func (s *InvoiceHandlersTestSuite) TestUpdateInvoiceStatus_InvalidStatus() {
	invoiceID := uuid.New()
	c, rec := s.newContext(http.MethodPut, "/v1/invoices/"+invoiceID.String()+"/status", `{"status":"cancelled"}`)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	s.Require().NoError(s.handlers.UpdateInvoiceStatus(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.invoiceSvc.AssertNotCalled(s.T(), "UpdateInvoiceStatus")
}

func (s *InvoiceHandlersTestSuite) TestUpdateInvoiceStatus_Success() {
	invoiceID := uuid.New()
	s.invoiceSvc.On("UpdateInvoiceStatus", mock.Anything, s.tenantID, invoiceID, models.InvoiceStatusPaid).Return(nil)

	c, rec := s.newContext(http.MethodPut, "/v1/invoices/"+invoiceID.String()+"/status", `{"status":"paid"}`)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	s.Require().NoError(s.handlers.UpdateInvoiceStatus(c))

	s.Equal(http.StatusOK, rec.Code)
	s.invoiceSvc.AssertExpectations(s.T())
}

func (s *InvoiceHandlersTestSuite) TestGetGSTReport_BadDates() {
	c, rec := s.newContext(http.MethodGet, "/v1/invoices/gst-report?start_date=March-1&end_date=2026-03-31", "")

	s.Require().NoError(s.handlers.GetGSTReport(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.invoiceSvc.AssertNotCalled(s.T(), "GetGSTReport")
}

func (s *InvoiceHandlersTestSuite) TestGetGSTReport_MissingStartDate() {
	c, rec := s.newContext(http.MethodGet, "/v1/invoices/gst-report?end_date=2026-03-31", "")

	s.Require().NoError(s.handlers.GetGSTReport(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.invoiceSvc.AssertNotCalled(s.T(), "GetGSTReport")
}

func (s *InvoiceHandlersTestSuite) TestGetGSTReport_MissingEndDate() {
	c, rec := s.newContext(http.MethodGet, "/v1/invoices/gst-report?start_date=2026-03-01", "")

	s.Require().NoError(s.handlers.GetGSTReport(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.invoiceSvc.AssertNotCalled(s.T(), "GetGSTReport")
}

func (s *InvoiceHandlersTestSuite) TestGetGSTReport_Success() {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []models.GSTReportRow{{InvoiceNumber: "INV-2026-03-0001", GSTType: "IGST"}}
	s.invoiceSvc.On("GetGSTReport", mock.Anything, s.tenantID, start, end).Return(rows, nil)

	c, rec := s.newContext(http.MethodGet, "/v1/invoices/gst-report?start_date=2026-03-01&end_date=2026-03-31", "")
	s.Require().NoError(s.handlers.GetGSTReport(c))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "IGST")
}

func (s *InvoiceHandlersTestSuite) TestGetInvoices_Pagination() {
	s.invoiceSvc.On("ListInvoices", mock.Anything, s.tenantID, 25, 50).Return([]*models.Invoice{}, nil)

	c, rec := s.newContext(http.MethodGet, "/v1/invoices?limit=25&offset=50", "")
	s.Require().NoError(s.handlers.GetInvoices(c))

	s.Equal(http.StatusOK, rec.Code)
	s.invoiceSvc.AssertExpectations(s.T())
}

func TestInvoiceHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlersTestSuite))
}
