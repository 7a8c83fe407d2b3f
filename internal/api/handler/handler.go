package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/applog/internal/api/dto"
	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/service"
	"github.com/cuongbtq/applog/internal/tracker/view"
	"github.com/cuongbtq/applog/shared/database"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	DBClient  *database.Client
	Jobs      *service.JobService
	Templates *service.TemplateService
	Session   *view.Session
	// Locations is the configured location shortlist offered by the board.
	Locations []string
}

// JobHandler handles job application HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	jobs      *service.JobService
	session   *view.Session
	locations []string
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		jobs:      deps.Jobs,
		session:   deps.Session,
		locations: deps.Locations,
	}
}

// TemplateHandler handles note template HTTP requests
type TemplateHandler struct {
	logger    *slog.Logger
	templates *service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(deps *Dependencies) *TemplateHandler {
	return &TemplateHandler{
		logger:    deps.Logger,
		templates: deps.Templates,
	}
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// respondError maps a service error onto a status code and body.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		verr *domain.ValidationError
		dup  *domain.DuplicateError
		nf   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Field: verr.Field})
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), ExistingID: dup.ExistingID})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
