package sberbank

import (
	"errors"
	"fmt"
)

// Error is returned by every Client operation. Code tells the failure kind apart,
// Err carries the underlying cause when there is one.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidOrderID     = "INVALID_ORDER_ID"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidReturnURL   = "INVALID_RETURN_URL"
	ErrCodeTransport          = "TRANSPORT_ERROR"
	ErrCodeMalformedResponse  = "MALFORMED_RESPONSE"
	ErrCodeGatewayRejected    = "GATEWAY_REJECTED"
)

func newInvalidCredentialsError(field string) *Error {
	return &Error{
		Code:    ErrCodeInvalidCredentials,
		Message: fmt.Sprintf("%s must be a non-empty string", field),
	}
}

func newInvalidOrderIDError(kind string, id any) *Error {
	return &Error{
		Code:    ErrCodeInvalidOrderID,
		Message: fmt.Sprintf("invalid %s order id %v", kind, id),
	}
}

func newInvalidAmountError(amount any) *Error {
	return &Error{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %v: expected a non-negative integer number of kopeks", amount),
	}
}

func newInvalidReturnURLError(returnURL string) *Error {
	return &Error{
		Code:    ErrCodeInvalidReturnURL,
		Message: fmt.Sprintf("invalid return url %q", returnURL),
	}
}

func newTransportError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeTransport,
		Message: fmt.Sprintf("request to %s failed", path),
		Err:     err,
	}
}

func newMalformedResponseError(path string, reason string, err error) *Error {
	return &Error{
		Code:    ErrCodeMalformedResponse,
		Message: fmt.Sprintf("malformed response from %s: %s", path, reason),
		Err:     err,
	}
}

func newGatewayRejectedError(err error) *Error {
	return &Error{
		Code:    ErrCodeGatewayRejected,
		Message: "gateway rejected the request",
		Err:     err,
	}
}

// RegisterOrderError is a business error reported by register.do.
type RegisterOrderError struct {
	Code    RegisterErrorCode
	Message string
}

func (e *RegisterOrderError) Error() string {
	return fmt.Sprintf("register order error [%d %s]: %s", int(e.Code), e.Code, e.Message)
}

// OrderStatusError is a business error reported by getOrderStatus.do.
type OrderStatusError struct {
	Code    StatusErrorCode
	Message string
}

func (e *OrderStatusError) Error() string {
	return fmt.Sprintf("order status error [%d %s]: %s", int(e.Code), e.Code, e.Message)
}

// IsErrorCode checks if an error is an *Error with a specific code
func IsErrorCode(err error, code string) bool {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Code == code
	}
	return false
}

func AsRegisterOrderError(err error) (*RegisterOrderError, bool) {
	var regErr *RegisterOrderError
	ok := errors.As(err, &regErr)
	return regErr, ok
}

func AsOrderStatusError(err error) (*OrderStatusError, bool) {
	var statusErr *OrderStatusError
	ok := errors.As(err, &statusErr)
	return statusErr, ok
}
