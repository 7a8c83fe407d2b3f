package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/applog/internal/api/dto"
	"github.com/cuongbtq/applog/internal/api/handler"
	"github.com/cuongbtq/applog/internal/tracker/domain"
	"github.com/cuongbtq/applog/internal/tracker/service"
	"github.com/cuongbtq/applog/internal/tracker/storage"
	"github.com/cuongbtq/applog/internal/tracker/view"
	"github.com/cuongbtq/applog/shared/database"
	"github.com/cuongbtq/applog/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	ctx := context.Background()
	log := logger.NewNop().Logger

	client, err := database.NewClient(ctx, &database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "applog.db"),
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	_, err = client.Migrate(ctx)
	require.NoError(t, err)

	store := storage.NewStorage(client, log)
	jobs := service.NewJobService(client, store, log)

	return SetupRouter(&handler.Dependencies{
		Logger:    log,
		DBClient:  client,
		Jobs:      jobs,
		Templates: service.NewTemplateService(client, store, log),
		Session:   view.NewSession(jobs),
		Locations: []string{"Remote"},
	})
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func createJob(t *testing.T, r http.Handler, fields map[string]any) domain.JobApplication {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/jobs", fields)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.JobApplication](t, w)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodOptions, "/api/v1/jobs", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJobsAPI(t *testing.T) {
	r := newTestRouter(t)

	job := createJob(t, r, map[string]any{
		"company_name":     "Imerys",
		"job_title":        "Project Manager",
		"job_url":          "https://www.indeed.com/jobs/1",
		"location":         "Geneva, SWZ",
		"application_date": "2024-01-05",
		"salary_range":     "75000",
	})
	assert.Equal(t, domain.StatusApplied, job.Status)
	assert.Equal(t, "2024-01-05", job.ApplicationDate.String())
	assert.Equal(t, "75K", job.SalaryRangeFormatted)

	t.Run("duplicate url", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/jobs", map[string]any{
			"company_name": "Other",
			"job_title":    "PM",
			"job_url":      "https://WWW.indeed.com/jobs/1/",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, job.ID, decode[dto.ErrorResponse](t, w).ExistingID)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			body  any
			field string
		}{
			{name: "missing title", body: map[string]any{"company_name": "A", "job_url": "https://x.com/2"}, field: "job_title"},
			{name: "unknown field", body: map[string]any{"company_name": "A", "job_title": "B", "job_url": "u", "salary": 1}, field: "salary"},
			{name: "number as text", body: map[string]any{"company_name": 5, "job_title": "B", "job_url": "u"}, field: "company_name"},
			{name: "empty object", body: map[string]any{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := do(t, r, http.MethodPost, "/api/v1/jobs", tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.field, decode[dto.ErrorResponse](t, w).Field)
			})
		}

		w := do(t, r, http.MethodPost, "/api/v1/jobs", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/jobs/"+itoa(job.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, job.ID, decode[domain.JobApplication](t, w).ID)

		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/jobs/999", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/jobs/abc", nil).Code)
	})

	t.Run("lookup", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/jobs/lookup?url=HTTPS://www.indeed.com/jobs/1/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, job.ID, decode[domain.JobApplication](t, w).ID)

		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/jobs/lookup?url=https://x.com/none", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/jobs/lookup", nil).Code)
	})

	t.Run("update", func(t *testing.T) {
		w := do(t, r, http.MethodPatch, "/api/v1/jobs/"+itoa(job.ID), map[string]any{"status": "Interview"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, domain.StatusInterview, decode[domain.JobApplication](t, w).Status)

		w = do(t, r, http.MethodPatch, "/api/v1/jobs/"+itoa(job.ID), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, r, http.MethodPatch, "/api/v1/jobs/"+itoa(job.ID), map[string]any{"status": "Ghosted"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "status", decode[dto.ErrorResponse](t, w).Field)

		w = do(t, r, http.MethodPatch, "/api/v1/jobs/999", map[string]any{"status": "Offer"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("notes", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/notes", dto.AddNoteRequest{Note: "Phone screen booked"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[domain.JobApplication](t, w)
		require.Len(t, got.Notes, 1)
		assert.Equal(t, "Phone screen booked", got.Notes[0].Note)

		w = do(t, r, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/notes", dto.AddNoteRequest{Note: " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, r, http.MethodPost, "/api/v1/jobs/999/notes", dto.AddNoteRequest{Note: "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		createJob(t, r, map[string]any{
			"company_name":     "Nestle",
			"job_title":        "Data Engineer",
			"job_url":          "https://x.com/2",
			"application_date": "2024-02-10",
		})

		w := do(t, r, http.MethodGet, "/api/v1/jobs", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[dto.ListJobsResponse](t, w)
		require.Equal(t, 2, list.Count)
		assert.Equal(t, "Nestle", list.Jobs[0].CompanyName)
		assert.Equal(t, "Imerys", list.Jobs[1].CompanyName)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/jobs/"+itoa(job.ID), nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/v1/jobs/"+itoa(job.ID), nil).Code)
	})
}

func TestBoardAPI(t *testing.T) {
	r := newTestRouter(t)

	a := createJob(t, r, map[string]any{"company_name": "Imerys", "job_title": "PM", "job_url": "https://x.com/a", "location": "Geneva, SWZ"})
	createJob(t, r, map[string]any{"company_name": "Nestle", "job_title": "Engineer", "job_url": "https://x.com/b", "location": "Vevey, SWZ"})

	w := do(t, r, http.MethodPatch, "/api/v1/jobs/"+itoa(a.ID), map[string]any{"status": "Rejected"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/jobs/board", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[dto.BoardResponse](t, w)
	assert.Equal(t, view.Counts{Total: 1, Filtered: 1}, board.Counts)
	require.Len(t, board.Jobs, 1)
	assert.Equal(t, "Nestle", board.Jobs[0].CompanyName)
	require.Len(t, board.Archived, 1)
	assert.Equal(t, []string{"Imerys", "Nestle"}, board.Companies)
	assert.Equal(t, []string{"Remote", "Geneva, SWZ", "Vevey, SWZ"}, board.LocationChoices)

	w = do(t, r, http.MethodGet, "/api/v1/jobs/board?status=Rejected", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board = decode[dto.BoardResponse](t, w)
	require.Len(t, board.Jobs, 1)
	assert.Equal(t, a.ID, board.Jobs[0].ID)
	assert.Equal(t, view.Counts{Total: 1, Filtered: 1}, board.Counts)

	w = do(t, r, http.MethodGet, "/api/v1/jobs/board?search=ENGINEER&location=Vevey,+SWZ", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.BoardResponse](t, w).Jobs, 1)

	w = do(t, r, http.MethodGet, "/api/v1/jobs/board?status=Ghosted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplatesAPI(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/templates", map[string]any{"name": "Follow-up", "content": "Sent a follow-up email"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tpl := decode[domain.NoteTemplate](t, w)

	w = do(t, r, http.MethodPost, "/api/v1/templates", map[string]any{"name": "Thank you", "content": "Thanked the interviewer"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/templates", map[string]any{"name": "No content"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[dto.ListTemplatesResponse](t, w).Count)

	w = do(t, r, http.MethodGet, "/api/v1/templates?q=EMAIL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListTemplatesResponse](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, tpl.ID, list.Templates[0].ID)

	w = do(t, r, http.MethodPatch, "/api/v1/templates/"+itoa(tpl.ID), map[string]any{"content": "Followed up by phone"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Followed up by phone", decode[domain.NoteTemplate](t, w).Content)

	w = do(t, r, http.MethodGet, "/api/v1/templates/"+itoa(tpl.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/templates/"+itoa(tpl.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/templates/"+itoa(tpl.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/v1/templates/"+itoa(tpl.ID), nil).Code)
}
