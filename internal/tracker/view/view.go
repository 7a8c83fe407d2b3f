// Package view derives the projections a caller renders from the full list of
// job applications. Every function is pure: it reads its arguments, never
// modifies them, and returns freshly allocated results in a deterministic
// order.
package view

import (
	"slices"
	"strings"

	"github.com/cuongbtq/applog/internal/tracker/domain"
)

// Filter is the caller's current filter selection. Zero values mean "no
// filter".
type Filter struct {
	Search   string        `json:"search" form:"search"`
	Company  string        `json:"company" form:"company"`
	Status   domain.Status `json:"status" form:"status"`
	Location string        `json:"location" form:"location"`
}

// IsZero reports whether no filter is set.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Company == "" && f.Status == "" && f.Location == ""
}

// Counts backs a "showing X of Y" label.
type Counts struct {
	Total    int `json:"total_count"`
	Filtered int `json:"filtered_count"`
}

// Active returns jobs whose status is not archived, in input order.
func Active(jobs []domain.JobApplication) []domain.JobApplication {
	return keep(jobs, func(j *domain.JobApplication) bool { return !j.Status.Archived() })
}

// Archived returns jobs whose status is Rejected, Withdrawn or No Response.
func Archived(jobs []domain.JobApplication) []domain.JobApplication {
	return keep(jobs, func(j *domain.JobApplication) bool { return j.Status.Archived() })
}

// Filtered narrows the active jobs by f. An explicit status filter replaces
// the active-only restriction so archived jobs can be shown on request.
func Filtered(jobs []domain.JobApplication, f Filter) []domain.JobApplication {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return keep(jobs, func(j *domain.JobApplication) bool {
		if f.Status != "" {
			if j.Status != f.Status {
				return false
			}
		} else if j.Status.Archived() {
			return false
		}
		if f.Company != "" && j.CompanyName != f.Company {
			return false
		}
		if f.Location != "" && j.Location != f.Location {
			return false
		}
		if search != "" && !matches(j, search) {
			return false
		}
		return true
	})
}

// CountsFor returns the active and filtered cardinalities.
func CountsFor(jobs []domain.JobApplication, f Filter) Counts {
	return Counts{
		Total:    len(Active(jobs)),
		Filtered: len(Filtered(jobs, f)),
	}
}

// UniqueLocations returns distinct non-blank locations in first-occurrence
// order.
func UniqueLocations(jobs []domain.JobApplication) []string {
	return unique(jobs, func(j *domain.JobApplication) string { return j.Location })
}

// UniqueCompanies returns distinct non-blank company names in
// first-occurrence order.
func UniqueCompanies(jobs []domain.JobApplication) []string {
	return unique(jobs, func(j *domain.JobApplication) string { return j.CompanyName })
}

// MergeChoices appends values from inUse that are missing from shortlist,
// keeping shortlist first. Blanks are dropped.
func MergeChoices(shortlist, inUse []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range [][]string{shortlist, inUse} {
		for _, v := range list {
			if strings.TrimSpace(v) == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// UniqueStatuses returns the statuses present in jobs, in pipeline order.
func UniqueStatuses(jobs []domain.JobApplication) []domain.Status {
	seen := make(map[domain.Status]bool)
	for i := range jobs {
		seen[jobs[i].Status] = true
	}

	out := []domain.Status{}
	for _, s := range domain.Statuses {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// NotesNewestFirst returns a reversed copy of the timeline for display.
func NotesNewestFirst(notes domain.Notes) domain.Notes {
	out := slices.Clone(notes)
	if out == nil {
		return domain.Notes{}
	}
	slices.Reverse(out)
	return out
}

// FindByID returns a copy of the job with id, or nil.
func FindByID(jobs []domain.JobApplication, id int64) *domain.JobApplication {
	for i := range jobs {
		if jobs[i].ID == id {
			job := clone(jobs[i])
			return &job
		}
	}
	return nil
}

// FilterTemplates returns templates whose name or content contains query,
// case-insensitively. A blank query returns all of them.
func FilterTemplates(templates []domain.NoteTemplate, query string) []domain.NoteTemplate {
	q := strings.ToLower(strings.TrimSpace(query))

	out := []domain.NoteTemplate{}
	for _, t := range templates {
		if q == "" || strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Content), q) {
			out = append(out, t)
		}
	}
	return out
}

// InsertTemplateText composes a note draft from a template: an empty draft is
// replaced, otherwise content goes on a new line.
func InsertTemplateText(draft, content string) string {
	if strings.TrimSpace(draft) == "" {
		return content
	}
	return strings.TrimRight(draft, "\n") + "\n" + content
}

func matches(j *domain.JobApplication, search string) bool {
	return strings.Contains(strings.ToLower(j.CompanyName), search) ||
		strings.Contains(strings.ToLower(j.JobTitle), search) ||
		strings.Contains(strings.ToLower(j.Description), search)
}

func keep(jobs []domain.JobApplication, pred func(*domain.JobApplication) bool) []domain.JobApplication {
	out := []domain.JobApplication{}
	for i := range jobs {
		if pred(&jobs[i]) {
			out = append(out, clone(jobs[i]))
		}
	}
	return out
}

func unique(jobs []domain.JobApplication, field func(*domain.JobApplication) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range jobs {
		v := field(&jobs[i])
		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// clone copies j so projections never share a notes backing array with the
// input.
func clone(j domain.JobApplication) domain.JobApplication {
	j.Notes = slices.Clone(j.Notes)
	if j.Notes == nil {
		j.Notes = domain.Notes{}
	}
	return j
}
