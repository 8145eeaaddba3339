package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/http/response"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
	"github.com/tolgee/tolgee-backend/internal/services"
)

type ActivityHandler struct {
	log      *logger.Logger
	activity services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		activity: activity,
	}
}

// GET /v2/projects/:projectId/activity
func (h *ActivityHandler) ListProjectActivity(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	pageable, err := pageableFromQuery(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	page, err := h.activity.ListProjectActivity(c.Request.Context(), projectID, pageable)
	if err != nil {
		h.log.Warn("ListProjectActivity failed", "error", err, "project_id", projectID)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /v2/projects/:projectId/activity/daily
func (h *ActivityHandler) DailyActivity(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	counts, err := h.activity.DailyActivity(c.Request.Context(), projectID)
	if err != nil {
		h.log.Warn("DailyActivity failed", "error", err, "project_id", projectID)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"daily": counts})
}
