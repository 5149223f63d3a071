package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeMissingField   ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat  ErrorCode = "INVALID_FORMAT"
	ErrCodeAuthentication ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeQrCodeInvalid  ErrorCode = "QR_CODE_INVALID"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeCooldownActive ErrorCode = "COOLDOWN_ACTIVE"
	ErrCodeDatabaseError  ErrorCode = "DATABASE_ERROR"
	ErrCodeDeliveryFailed ErrorCode = "SMS_DELIVERY_FAILED"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// MissingField и InvalidFormat формируют сообщение с именем поля.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, field+" is required")
}

func InvalidFormat(field string) *AppError {
	return New(ErrCodeInvalidFormat, field+" has an invalid format")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingField, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeAuthentication:
		return http.StatusUnauthorized
	case ErrCodeQrCodeInvalid, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeCooldownActive:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки приложения или INTERNAL_ERROR для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound) || Is(err, ErrCodeQrCodeInvalid)
}

var (
	ErrQrCodeInvalid             = New(ErrCodeQrCodeInvalid, "QR code is invalid or no longer active")
	ErrShareholderNotFound       = New(ErrCodeNotFound, "shareholder not found")
	ErrSessionNotFound           = New(ErrCodeNotFound, "verification session not found")
	ErrAuthenticationFailed      = New(ErrCodeAuthentication, "verification failed")
	ErrVerificationCodeExpired   = New(ErrCodeAuthentication, "verification code has expired")
	ErrVerificationCodeIncorrect = New(ErrCodeAuthentication, "verification code is incorrect")
)
