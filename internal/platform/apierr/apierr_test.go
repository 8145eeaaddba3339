package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tolgee/tolgee-backend/internal/domain/errs"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation key", err: errs.Validation("op", "language_tag_required"), status: http.StatusBadRequest, code: "language_tag_required"},
		{name: "not found", err: errs.NotFound("op", "project_not_found"), status: http.StatusNotFound, code: "project_not_found"},
		{name: "conflict", err: errs.Conflict("op", "language_tag_exists"), status: http.StatusConflict, code: "language_tag_exists"},
		{name: "precondition", err: errs.Wrap(errs.CodePreconditionFailed, "op", errors.New("fk")), status: http.StatusPreconditionFailed, code: "precondition_failed"},
		{name: "retryable", err: errs.New(errs.CodeRetryable, "op", "repeatedly_cannot_serialize", nil), status: http.StatusServiceUnavailable, code: "repeatedly_cannot_serialize"},
		{name: "internal hides key", err: errs.New(errs.CodeInternal, "op", "transaction_required", nil), status: http.StatusInternalServerError, code: "internal"},
		{name: "uncoded", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
		{name: "api error passes", err: New(http.StatusTeapot, "teapot", nil), status: http.StatusTeapot, code: "teapot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if got.Status != tt.status || got.Code != tt.code {
				t.Fatalf("got status=%d code=%q, want status=%d code=%q", got.Status, got.Code, tt.status, tt.code)
			}
		})
	}
	if From(nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
