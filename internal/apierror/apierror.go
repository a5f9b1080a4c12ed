// Package apierror provides standardized error response structures for the API
// plus the typed business errors raised by the settlement engine. All errors
// returned to clients go through this package to ensure consistency and to
// prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors keyed by request field name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// Business error codes. Each maps to exactly one failure described in the
// settlement contract; handlers translate them into field-keyed responses.
const (
	CodeUnknownProduct       = "unknown_product"
	CodeDuplicateLine        = "duplicate_line"
	CodeInvalidQuantity      = "invalid_quantity"
	CodeInactiveProduct      = "inactive_product"
	CodeUnknownCustomer      = "unknown_customer"
	CodeInsufficientStock    = "insufficient_stock"
	CodeInsufficientPayment  = "insufficient_payment"
	CodeInvalidDiscountValue = "invalid_discount_value"
	CodeMissingDiscountType  = "missing_discount_type"
	CodeConcurrencyConflict  = "concurrency_conflict"
)

// BusinessError is a recoverable domain failure. Field names the request
// field the failure belongs to ("" for non-field errors such as concurrency
// conflicts). Every BusinessError implies a full rollback of the unit of
// work it was raised in.
type BusinessError struct {
	Code  string
	Field string
	Msg   string
}

func (e *BusinessError) Error() string { return e.Msg }

func UnknownProduct(id string) *BusinessError {
	return &BusinessError{Code: CodeUnknownProduct, Field: "items", Msg: fmt.Sprintf("unknown product %s", id)}
}

func DuplicateLine(id string) *BusinessError {
	return &BusinessError{Code: CodeDuplicateLine, Field: "items", Msg: fmt.Sprintf("duplicate line for product %s, merge quantities upstream", id)}
}

func InvalidQuantity(id string) *BusinessError {
	return &BusinessError{Code: CodeInvalidQuantity, Field: "items", Msg: fmt.Sprintf("quantity for product %s must be at least 1", id)}
}

func InactiveProduct(name string) *BusinessError {
	return &BusinessError{Code: CodeInactiveProduct, Field: "items", Msg: fmt.Sprintf("product %s is inactive and cannot be sold", name)}
}

func UnknownCustomer(id string) *BusinessError {
	return &BusinessError{Code: CodeUnknownCustomer, Field: "customer_id", Msg: fmt.Sprintf("unknown customer %s", id)}
}

func InsufficientStock(name string) *BusinessError {
	return &BusinessError{Code: CodeInsufficientStock, Field: "items", Msg: fmt.Sprintf("insufficient stock for %s", name)}
}

func InsufficientPayment() *BusinessError {
	return &BusinessError{Code: CodeInsufficientPayment, Field: "amount_paid", Msg: "amount paid is below the total due"}
}

func InvalidDiscountValue(msg string) *BusinessError {
	return &BusinessError{Code: CodeInvalidDiscountValue, Field: "discount_value", Msg: msg}
}

func MissingDiscountType() *BusinessError {
	return &BusinessError{Code: CodeMissingDiscountType, Field: "discount_type", Msg: "discount_type is required when discount_value is present"}
}

func ConcurrencyConflict() *BusinessError {
	return &BusinessError{Code: CodeConcurrencyConflict, Field: "", Msg: "another sale is updating the same records, retry the request"}
}

// AsBusiness unwraps err into a *BusinessError when possible.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsLockConflict reports whether err is a Postgres lock-wait timeout (55P03)
// or deadlock (40P01), the two conditions surfaced as ConcurrencyConflict.
func IsLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "55P03" || pgErr.Code == "40P01"
}

// IsUniqueViolation reports whether err is a Postgres unique-index violation
// (23505), e.g. a duplicate SKU on product registration.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
