package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodePromptRequired     = "PROMPT_REQUIRED"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeCheckoutInProgress = "CHECKOUT_IN_PROGRESS"
	ErrCodeCheckoutFailed     = "CHECKOUT_FAILED"
	ErrCodeCheckoutTimeout    = "CHECKOUT_TIMEOUT"
	ErrCodeCheckoutCanceled   = "CHECKOUT_CANCELED"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func PromptRequiredError() *AppError {
	return NewAppError(ErrCodePromptRequired, "Prompt is required", http.StatusBadRequest)
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cart is empty", http.StatusBadRequest)
}

func CheckoutInProgressError() *AppError {
	return NewAppError(ErrCodeCheckoutInProgress, "A checkout is already in progress", http.StatusConflict)
}

// CheckoutFailedError is a payment the gateway refused or could not finish.
func CheckoutFailedError(message string) *AppError {
	return NewAppError(ErrCodeCheckoutFailed, message, http.StatusPaymentRequired)
}

func CheckoutTimeoutError() *AppError {
	return NewAppError(ErrCodeCheckoutTimeout, "Checkout timed out", http.StatusGatewayTimeout)
}

func CheckoutCanceledError() *AppError {
	return NewAppError(ErrCodeCheckoutCanceled, "Checkout was canceled", http.StatusConflict)
}

func UpstreamError(message string) *AppError {
	return NewAppError(ErrCodeUpstream, message, http.StatusBadGateway)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
