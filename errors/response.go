package errors

import (
	stderrors "errors"
)

// ErrorResponse is the envelope the HTTP API sends for failed requests.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError. Cause never leaves the process.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse builds the JSON envelope for e.
func (e *AppError) ToResponse() ErrorResponse {
	body := ErrorBody{Code: e.Code, Message: e.Message, Retryable: e.Retryable}
	if len(e.Details) > 0 {
		body.Details = e.Details
	}
	return ErrorResponse{Error: body}
}

// AsAppError finds the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// Resolve returns the AppError carried by err, or wraps err as an internal
// error when the chain has none.
func Resolve(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
