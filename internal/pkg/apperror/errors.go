package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotVerified      ErrorCode = "NOT_VERIFIED"
	ErrCodeInvalidCode      ErrorCode = "INVALID_CODE"
	ErrCodeCodeExpired      ErrorCode = "CODE_EXPIRED"
	ErrCodeAlreadyVerified  ErrorCode = "ALREADY_VERIFIED"
	ErrCodeMessagesDisabled ErrorCode = "MESSAGES_DISABLED"
	ErrCodeEmailDelivery    ErrorCode = "EMAIL_DELIVERY"
	ErrCodeSuggestion       ErrorCode = "SUGGESTION_UNAVAILABLE"
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

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeNotVerified, ErrCodeMessagesDisabled:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidCode, ErrCodeCodeExpired, ErrCodeAlreadyVerified:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeEmailDelivery, ErrCodeSuggestion:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// Code возвращает код ошибки или INTERNAL_ERROR для неизвестной ошибки.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

var (
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrMessageNotFound    = New(ErrCodeNotFound, "сообщение не найдено или уже удалено")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrNotVerified        = New(ErrCodeNotVerified, "аккаунт не подтверждён, сначала пройдите верификацию")
	ErrInvalidVerifyCode  = New(ErrCodeInvalidCode, "неверный код подтверждения")
	ErrVerifyCodeExpired  = New(ErrCodeCodeExpired, "код подтверждения истёк, зарегистрируйтесь заново для получения нового")
	ErrAlreadyVerified    = New(ErrCodeAlreadyVerified, "аккаунт уже подтверждён")
	ErrMessagesDisabled   = New(ErrCodeMessagesDisabled, "пользователь не принимает сообщения")
)
