package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/applog/internal/api/dto"
	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/validation"
)

// CreateTemplate handles POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var fields validation.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "Invalid request body")
		return
	}

	tpl, err := h.templates.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, tpl)
}

// ListTemplates handles GET /api/v1/templates?q=
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTemplatesResponse{Templates: templates, Count: len(templates)})
}

// GetTemplate handles GET /api/v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	tpl, err := h.templates.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if tpl == nil {
		respondError(c, h.logger, &domain.NotFoundError{Entity: "note template", ID: id})
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate handles PATCH /api/v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var fields validation.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate handles DELETE /api/v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
