package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/domain/project"
	"github.com/tolgee/tolgee-backend/internal/http/response"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
	"github.com/tolgee/tolgee-backend/internal/services"
)

type LanguageHandler struct {
	log      *logger.Logger
	projects services.ProjectService
}

func NewLanguageHandler(log *logger.Logger, projects services.ProjectService) *LanguageHandler {
	return &LanguageHandler{
		log:      log.With("handler", "LanguageHandler"),
		projects: projects,
	}
}

// GET /v2/projects/:projectId/languages/base
func (h *LanguageHandler) GetBaseLanguage(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	lang, err := h.projects.GetOrCreateBaseLanguage(c.Request.Context(), projectID)
	if err != nil {
		h.log.Warn("GetBaseLanguage failed", "error", err, "project_id", projectID)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, lang)
}

// POST /v2/projects/:projectId/languages
func (h *LanguageHandler) CreateLanguage(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var dto project.LanguageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.RespondErr(c, errs.Validation("http.language", "invalid_body"))
		return
	}
	lang, err := h.projects.CreateLanguage(c.Request.Context(), projectID, dto)
	if err != nil {
		h.log.Warn("CreateLanguage failed", "error", err, "project_id", projectID)
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, lang)
}

// PUT /v2/projects/:projectId/languages/:languageId
func (h *LanguageHandler) EditLanguage(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	languageID, err := pathID(c, "languageId", "invalid_language_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var dto project.LanguageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.RespondErr(c, errs.Validation("http.language", "invalid_body"))
		return
	}
	lang, err := h.projects.EditLanguage(c.Request.Context(), projectID, languageID, dto)
	if err != nil {
		h.log.Warn("EditLanguage failed", "error", err, "project_id", projectID, "language_id", languageID)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, lang)
}

// DELETE /v2/projects/:projectId/languages/:languageId
func (h *LanguageHandler) DeleteLanguage(c *gin.Context) {
	projectID, err := pathID(c, "projectId", "invalid_project_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	languageID, err := pathID(c, "languageId", "invalid_language_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.projects.DeleteLanguage(c.Request.Context(), projectID, languageID); err != nil {
		h.log.Warn("DeleteLanguage failed", "error", err, "project_id", projectID, "language_id", languageID)
		response.RespondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}
