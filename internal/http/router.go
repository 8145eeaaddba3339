package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/tolgee/tolgee-backend/internal/http/handlers"
	httpMW "github.com/tolgee/tolgee-backend/internal/http/middleware"
	"github.com/tolgee/tolgee-backend/internal/observability"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	ActivityHandler *httpH.ActivityHandler
	LanguageHandler *httpH.LanguageHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachAuthor())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	projects := r.Group("/v2/projects/:projectId")
	{
		if cfg.ActivityHandler != nil {
			projects.GET("/activity", cfg.ActivityHandler.ListProjectActivity)
			projects.GET("/activity/daily", cfg.ActivityHandler.DailyActivity)
		}

		if cfg.LanguageHandler != nil {
			projects.GET("/languages/base", cfg.LanguageHandler.GetBaseLanguage)
			projects.POST("/languages", cfg.LanguageHandler.CreateLanguage)
			projects.PUT("/languages/:languageId", cfg.LanguageHandler.EditLanguage)
			projects.DELETE("/languages/:languageId", cfg.LanguageHandler.DeleteLanguage)
		}
	}

	return r
}
