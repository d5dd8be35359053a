// Package apperrors is the error taxonomy shared by every controller.
// Services return one of these; handlers translate with Respond.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aam-bd/autopartzone-api/pkg/logger"
)

const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeInsufficientStock   = "insufficient_stock"
	CodeInvalidTransition   = "invalid_transition"
	CodePaymentNotConfirmed = "payment_not_confirmed"
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeExternalService     = "external_service_error"
)

var statusByCode = map[string]int{
	CodeValidation:          http.StatusBadRequest,
	CodeNotFound:            http.StatusNotFound,
	CodeInsufficientStock:   http.StatusConflict,
	CodeInvalidTransition:   http.StatusConflict,
	CodePaymentNotConfirmed: http.StatusBadRequest,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeForbidden:           http.StatusForbidden,
	CodeExternalService:     http.StatusBadGateway,
}

type Error struct {
	Code    string
	Message string
	// ProductID/ProductName identify the failing line item on stock
	// conflicts so clients can prompt the user to adjust it.
	ProductID   uint
	ProductName string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the taxonomy onto conventional status codes.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

func InsufficientStock(productID uint, name string) *Error {
	return &Error{
		Code:        CodeInsufficientStock,
		Message:     fmt.Sprintf("insufficient stock for product %q (id %d)", name, productID),
		ProductID:   productID,
		ProductName: name,
	}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot change order status from %q to %q", from, to),
	}
}

func PaymentNotConfirmed(status string) *Error {
	return &Error{Code: CodePaymentNotConfirmed, Message: "payment not confirmed, processor status: " + status}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func External(err error) *Error {
	return &Error{Code: CodeExternalService, Message: "payment processor error", Err: err}
}

// Respond writes err as a JSON error response. Unknown errors become 500
// without leaking internals.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message, "code": appErr.Code}
		if appErr.ProductID != 0 {
			body["product_id"] = appErr.ProductID
			body["product_name"] = appErr.ProductName
		}
		c.JSON(appErr.HTTPStatus(), body)
		return
	}
	logger.Error().
		Err(err).
		Str("path", c.FullPath()).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
