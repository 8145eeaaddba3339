package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tolgee/tolgee-backend/internal/domain/errs"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code errs.Code) int {
	switch code {
	case errs.CodeValidation:
		return http.StatusBadRequest
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeConflict:
		return http.StatusConflict
	case errs.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case errs.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// From converts any error into an API error. An *Error already in the chain
// is returned as is. Coded domain errors expose their message key; wrapped
// causes and internal failures expose only the code.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var de *errs.Error
	if !errors.As(err, &de) {
		return &Error{Status: http.StatusInternalServerError, Code: string(errs.CodeInternal), Err: err}
	}
	status := StatusFor(de.Code)
	key := de.Message
	if key == "" || status == http.StatusInternalServerError || (de.Cause != nil && key == de.Cause.Error()) {
		key = string(de.Code)
	}
	return &Error{Status: status, Code: key, Err: err}
}
