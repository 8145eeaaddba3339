package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-1" || seen.TraceID == "" {
		t.Fatalf("unexpected trace data: %+v", seen)
	}
	if rec.Header().Get(headerRequestID) != "req-1" || rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("ids not echoed: %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := rec.Header().Get(headerRequestID); got == "" || got == "req-1" {
		t.Fatalf("expected a generated request id, got %q", got)
	}
}

func TestAttachAuthor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		header string
		want   int64
		ok     bool
	}{
		{header: "42", want: 42, ok: true},
		{header: " 7 ", want: 7, ok: true},
		{header: "", ok: false},
		{header: "abc", ok: false},
		{header: "-3", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := gin.New()
			r.Use(AttachAuthor())
			var (
				got int64
				ok  bool
			)
			r.GET("/x", func(c *gin.Context) {
				got, ok = ctxutil.AuthorID(c.Request.Context())
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set(headerAuthorID, tt.header)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("got (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMetricsObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New(observability.MetricsConfig{Enabled: true})
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/v2/projects/:projectId/activity", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v2/projects/5/activity", nil))

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(sb.String(), `route="/v2/projects/:projectId/activity"`) {
		t.Fatalf("expected route label in output:\n%s", sb.String())
	}
}
