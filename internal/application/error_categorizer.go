package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if regErr, ok := sberbank.AsRegisterOrderError(err); ok {
		switch regErr.Code {
		case sberbank.RegisterErrorSystem:
			return CategoryTransient
		case sberbank.RegisterErrorAlreadyRegistered:
			return CategoryBusinessRule
		default:
			return CategoryPermanent
		}
	}

	if statusErr, ok := sberbank.AsOrderStatusError(err); ok {
		switch statusErr.Code {
		case sberbank.StatusErrorSystem:
			return CategoryTransient
		case sberbank.StatusErrorUnregisteredOrder:
			return CategoryClientError
		default:
			return CategoryPermanent
		}
	}

	var clientErr *sberbank.Error
	if errors.As(err, &clientErr) {
		switch clientErr.Code {
		case sberbank.ErrCodeTransport:
			return CategoryTransient
		case sberbank.ErrCodeMalformedResponse:
			return CategoryPermanent
		default:
			return CategoryClientError
		}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvalidTransition, domain.ErrCodeOrderAlreadyExists:
			return CategoryBusinessRule
		default:
			return CategoryClientError
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeTimeout, ErrCodeGateway:
			return CategoryTransient
		}
	}

	return CategoryInfrastructure
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if regErr, ok := sberbank.AsRegisterOrderError(err); ok {
		switch regErr.Code {
		case sberbank.RegisterErrorAlreadyRegistered:
			return http.StatusConflict
		case sberbank.RegisterErrorIncorrectCurrency,
			sberbank.RegisterErrorMissedParameter,
			sberbank.RegisterErrorMissedValue:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	}

	if statusErr, ok := sberbank.AsOrderStatusError(err); ok {
		switch statusErr.Code {
		case sberbank.StatusErrorUnregisteredOrder:
			return http.StatusNotFound
		case sberbank.StatusErrorIncorrectPayment:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	}

	var clientErr *sberbank.Error
	if errors.As(err, &clientErr) {
		switch clientErr.Code {
		case sberbank.ErrCodeTransport, sberbank.ErrCodeMalformedResponse:
			return http.StatusBadGateway
		default:
			return http.StatusBadRequest
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeOrderNotFound:
			return http.StatusNotFound
		case domain.ErrCodeOrderAlreadyExists, domain.ErrCodeInvalidTransition:
			return http.StatusConflict
		default:
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if regErr, ok := sberbank.AsRegisterOrderError(err); ok {
		return "GATEWAY_" + regErr.Code.String()
	}

	if statusErr, ok := sberbank.AsOrderStatusError(err); ok {
		return "GATEWAY_" + statusErr.Code.String()
	}

	var clientErr *sberbank.Error
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}
