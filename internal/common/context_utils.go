package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"billmint/internal/billing"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a field-level validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendBillingError maps the billing error taxonomy onto the error envelope.
// Stock and amount errors stay recoverable field-level rejections; anything
// unrecognized is treated as a server error.
func SendBillingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, billing.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, CreateErrorResponse("INSUFFICIENT_STOCK", err.Error(), nil))
	case errors.Is(err, billing.ErrInvalidQuantity):
		return SendValidationError(c, "quantity", err.Error())
	case errors.Is(err, billing.ErrIndexOutOfRange):
		return SendValidationError(c, "line_index", err.Error())
	case errors.Is(err, billing.ErrProductNotFound):
		return SendNotFoundError(c, "product")
	case errors.Is(err, billing.ErrTaxTypeUndetermined):
		return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("TAX_TYPE_PENDING", err.Error(), nil))
	case errors.Is(err, billing.ErrInvalidAmount):
		return SendValidationError(c, "amount", err.Error())
	case errors.Is(err, billing.ErrValidation):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", err.Error(), nil))
	case errors.Is(err, billing.ErrServiceUnavailable):
		return c.JSON(http.StatusServiceUnavailable, CreateErrorResponse("SERVICE_UNAVAILABLE", err.Error(), nil))
	default:
		return SendServerError(c, err.Error())
	}
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %v", fieldName, err)
	}
	return id, nil
}

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[0-9A-Z]{1}[A-Z]{1}[0-9A-Z]{1}$`)

// ValidateGSTIN validates GSTIN format. Empty is allowed; GSTIN is optional
// on customers and organizations.
func ValidateGSTIN(gstin, fieldName string) error {
	if strings.TrimSpace(gstin) == "" {
		return nil
	}
	if len(gstin) != 15 {
		return fmt.Errorf("%s must be exactly 15 characters", fieldName)
	}
	if !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("%s has invalid GSTIN format", fieldName)
	}
	return nil
}

var stateCodePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

// ValidateStateCode validates a two-letter GST state code (e.g. MH, KA).
func ValidateStateCode(code, fieldName string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	if !stateCodePattern.MatchString(code) {
		return fmt.Errorf("%s must be a 2-letter state code", fieldName)
	}
	return nil
}

// ValidateTaxRate checks the rate against the permitted GST rate set.
func ValidateTaxRate(rate int, fieldName string) error {
	if !billing.ValidTaxRate(rate) {
		return fmt.Errorf("%s must be one of %v", fieldName, billing.TaxRates)
	}
	return nil
}

// ValidateHSNSAC validates HSN/SAC classification codes (digits, up to 8).
func ValidateHSNSAC(code, fieldName string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	if len(code) > 8 {
		return fmt.Errorf("%s must be 8 characters or less", fieldName)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must contain only digits", fieldName)
		}
	}
	return nil
}

// ValidateNonNegativeAmount rejects negative monetary inputs at entry.
func ValidateNonNegativeAmount(value decimal.Decimal, fieldName string) error {
	if value.IsNegative() {
		return fmt.Errorf("%s must not be negative", fieldName)
	}
	return nil
}

// ValidatePositiveAmount rejects zero or negative monetary inputs.
func ValidatePositiveAmount(value decimal.Decimal, fieldName string) error {
	if !value.IsPositive() {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%s cannot exceed %d", fieldName, maxValue)
	}
	return nil
}

// ValidateDateFormat validates YYYY-MM-DD date strings
func ValidateDateFormat(dateStr, fieldName string) error {
	if strings.TrimSpace(dateStr) == "" {
		return nil // Empty is allowed, handled elsewhere
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateInvoiceStatus validates invoice status
func ValidateInvoiceStatus(status string) error {
	validStatuses := map[string]bool{
		"pending": true, "paid": true, "overdue": true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("invoice status must be one of: pending, paid, overdue")
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTenantIDFromContext extracts the tenant ID from the request context
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}
