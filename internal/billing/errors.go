package billing

import "errors"

// Sentinel errors for the draft invoice workflow. Handlers map these to
// field-level responses with errors.Is; none of them is fatal to the draft.
var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrIndexOutOfRange     = errors.New("line index out of range")
	ErrProductNotFound     = errors.New("product not found in catalog")
	ErrTaxTypeUndetermined = errors.New("tax type undetermined: both seller and buyer GST details are required")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrValidation          = errors.New("invoice draft is incomplete")
)

// ErrServiceUnavailable marks failures of a backing service (object storage,
// queue) rather than a problem with the draft itself.
var ErrServiceUnavailable = errors.New("service unavailable")
