package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeUnprocessable = "UNPROCESSABLE"
	ErrCodeDispatch      = "DISPATCH_FAILED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// APIError is an error that maps directly to an HTTP response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

func Validation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidInput, Message: message}
}

// Unprocessable reports input that is well-formed but references state that
// does not exist, e.g. creating a trigger against a missing webhook.
func Unprocessable(message string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Code: ErrCodeUnprocessable, Message: message}
}

func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// DispatchError reports a failed webhook call. Status and Body hold the remote
// response when the remote answered with >=400; Unreachable is set when the
// call never completed (DNS, connect, timeout).
type DispatchError struct {
	Status      int
	Body        string
	Unreachable bool
	Err         error
}

func (e *DispatchError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("webhook unreachable: %v", e.Err)
	}
	return fmt.Sprintf("webhook responded with HTTP %d: %s", e.Status, e.Body)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// WriteFromError maps service-layer errors onto the JSON error shape.
// Dispatch failures keep the {"detail": {status, message}} body the browser
// extension expects.
func WriteFromError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		WriteError(w, apiErr.Status, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		WriteDispatchError(w, dispatchErr)
		return
	}

	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, err.Error(), nil)
}

func WriteDispatchError(w http.ResponseWriter, err *DispatchError) {
	detail := struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}{
		Status:  err.Status,
		Message: err.Body,
	}
	if err.Unreachable {
		detail.Message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(struct {
		Detail interface{} `json:"detail"`
	}{Detail: detail})
}
