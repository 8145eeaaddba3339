package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/platform/apierr"
	"github.com/tolgee/tolgee-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := code
	if msg == "" {
		msg = "unknown error"
	}
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	env := ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		env.Error.RequestID = td.RequestID
	}
	c.AbortWithStatusJSON(status, env)
}

// RespondErr maps err through apierr and writes the error envelope.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
