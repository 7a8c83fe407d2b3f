package dto

import (
	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/view"
)

// AddNoteRequest is the body of POST /jobs/:id/notes
type AddNoteRequest struct {
	Note string `json:"note"`
}

// ListJobsResponse is returned by GET /jobs
type ListJobsResponse struct {
	Jobs  []domain.JobApplication `json:"jobs"`
	Count int                     `json:"count"`
}

// BoardResponse is returned by GET /jobs/board
type BoardResponse struct {
	view.Board
	// LocationChoices merges the configured shortlist with locations in use.
	LocationChoices []string `json:"location_choices"`
}

// ListTemplatesResponse is returned by GET /templates
type ListTemplatesResponse struct {
	Templates []domain.NoteTemplate `json:"templates"`
	Count     int                   `json:"count"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	ExistingID int64  `json:"existing_id,omitempty"`
}
