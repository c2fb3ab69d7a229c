// internal/util/errors.go
// Definisi error aplikasi standar

package util

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string // e.g., "bad_input", "not_found", "internal"
	Message string
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func BadInput(msg string) AppError         { return AppError{Code: "bad_input", Message: msg} }
func NotFound(msg string) AppError         { return AppError{Code: "not_found", Message: msg} }
func Internal(msg string) AppError         { return AppError{Code: "internal", Message: msg} }
func InsufficientData(msg string) AppError { return AppError{Code: "insufficient_data", Message: msg} }
func ModelUnavailable(msg string) AppError { return AppError{Code: "model_unavailable", Message: msg} }

// IsCode cek apakah err adalah AppError dengan code tertentu.
func IsCode(err error, code string) bool {
	var ae AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
