package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/applog/internal/api/dto"
	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/validation"
	"github.com/cuongbtq/applog/internal/tracker/view"
)

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var fields validation.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.refresh(c.Request.Context())
	c.JSON(http.StatusCreated, job)
}

// ListJobs handles GET /api/v1/jobs
// Returns every application, latest application date first
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobs.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: jobs, Count: len(jobs)})
}

// LookupJob handles GET /api/v1/jobs/lookup?url=
func (h *JobHandler) LookupJob(c *gin.Context) {
	job, err := h.jobs.GetByURL(c.Request.Context(), c.Query("url"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no application tracks this url"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Board handles GET /api/v1/jobs/board
// Computes the derived views for the filter in the query string
func (h *JobHandler) Board(c *gin.Context) {
	var filter view.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		badRequest(c, "unknown status "+string(filter.Status))
		return
	}

	if c.Query("refresh") == "true" || h.session.RefreshedAt().IsZero() {
		if err := h.session.Refresh(c.Request.Context()); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	board := h.session.Board(filter)
	c.JSON(http.StatusOK, dto.BoardResponse{
		Board:           board,
		LocationChoices: view.MergeChoices(h.locations, board.Locations),
	})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if job == nil {
		respondError(c, h.logger, &domain.NotFoundError{Entity: "job application", ID: id})
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob handles PATCH /api/v1/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var fields validation.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.refresh(c.Request.Context())
	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.refresh(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// AddNote handles POST /api/v1/jobs/:id/notes
func (h *JobHandler) AddNote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req dto.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobs.AddNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.refresh(c.Request.Context())
	c.JSON(http.StatusCreated, job)
}

// refresh replaces the board snapshot after a committed mutation. The
// mutation already succeeded, so a failure here only leaves the board stale.
func (h *JobHandler) refresh(ctx context.Context) {
	if err := h.session.Refresh(ctx); err != nil {
		h.logger.Warn("Failed to refresh board snapshot", slog.Any("error", err))
	}
}
