package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cuongbtq/applog/internal/tracker/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func job(id int64, company, title, location string, status domain.Status) domain.JobApplication {
	return domain.JobApplication{
		ID:          id,
		CompanyName: company,
		JobTitle:    title,
		Location:    location,
		Status:      status,
		Notes:       domain.Notes{},
	}
}

func fixtureJobs() []domain.JobApplication {
	jobs := []domain.JobApplication{
		job(1, "Imerys", "Project Manager", "Geneva, SWZ", domain.StatusApplied),
		job(2, "Nestle", "Data Engineer", "Vevey, SWZ", domain.StatusRejected),
		job(3, "Imerys", "Site Lead", "", domain.StatusInterview),
		job(4, "Logitech", "Go Developer", "Lausanne, SWZ", domain.StatusWithdrawn),
		job(5, "Roche", "Platform Engineer", "Geneva, SWZ", domain.StatusNoResponse),
		job(6, "Swisscom", "Backend Engineer", "Bern, SWZ", domain.StatusOffer),
	}
	jobs[5].Description = "Kubernetes and Go"
	return jobs
}

func ids(jobs []domain.JobApplication) []int64 {
	out := []int64{}
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestActiveArchivedPartition(t *testing.T) {
	jobs := fixtureJobs()

	for _, archivedStatus := range domain.Statuses {
		t.Run(string(archivedStatus), func(t *testing.T) {
			// every job in the same status exercises each side of the split
			all := fixtureJobs()
			for i := range all {
				all[i].Status = archivedStatus
			}
			active, archived := Active(all), Archived(all)
			assert.Len(t, append(active, archived...), len(all))
			if archivedStatus.Archived() {
				assert.Empty(t, active)
			} else {
				assert.Empty(t, archived)
			}
		})
	}

	active := Active(jobs)
	archived := Archived(jobs)
	assert.Equal(t, []int64{1, 3, 6}, ids(active))
	assert.Equal(t, []int64{2, 4, 5}, ids(archived))

	seen := map[int64]int{}
	for _, j := range append(active, archived...) {
		seen[j.ID]++
	}
	assert.Len(t, seen, len(jobs))
	for id, n := range seen {
		assert.Equal(t, 1, n, "job %d", id)
	}
}

func TestFiltered(t *testing.T) {
	jobs := fixtureJobs()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "no filter equals active", filter: Filter{}, want: ids(Active(jobs))},
		{name: "search company", filter: Filter{Search: "imerys"}, want: []int64{1, 3}},
		{name: "search title case insensitive", filter: Filter{Search: "PROJECT"}, want: []int64{1}},
		{name: "search description", filter: Filter{Search: "kubernetes"}, want: []int64{6}},
		{name: "search hides archived", filter: Filter{Search: "engineer"}, want: []int64{6}},
		{name: "blank search", filter: Filter{Search: "   "}, want: []int64{1, 3, 6}},
		{name: "company exact", filter: Filter{Company: "Imerys"}, want: []int64{1, 3}},
		{name: "company is not substring", filter: Filter{Company: "Imer"}, want: []int64{}},
		{name: "location", filter: Filter{Location: "Geneva, SWZ"}, want: []int64{1}},
		{name: "explicit archived status", filter: Filter{Status: domain.StatusRejected}, want: []int64{2}},
		{name: "explicit active status", filter: Filter{Status: domain.StatusOffer}, want: []int64{6}},
		{name: "status and location", filter: Filter{Status: domain.StatusNoResponse, Location: "Geneva, SWZ"}, want: []int64{5}},
		{name: "combined miss", filter: Filter{Company: "Imerys", Location: "Bern, SWZ"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filtered(jobs, tt.filter)))
		})
	}
}

func TestFilteredIsPureAndDeterministic(t *testing.T) {
	jobs := fixtureJobs()
	jobs[0].Notes = domain.Notes{{Note: "first"}}
	before := fixtureJobs()
	before[0].Notes = domain.Notes{{Note: "first"}}

	f := Filter{Search: "i"}
	first := Filtered(jobs, f)
	second := Filtered(jobs, f)
	assert.Equal(t, first, second)
	assert.Equal(t, before, jobs)

	first[0].Notes[0].Note = "changed"
	first[0].CompanyName = "changed"
	assert.Equal(t, "first", jobs[0].Notes[0].Note)
	assert.Equal(t, "Imerys", jobs[0].CompanyName)
}

func TestCountsFor(t *testing.T) {
	jobs := fixtureJobs()

	assert.Equal(t, Counts{Total: 3, Filtered: 3}, CountsFor(jobs, Filter{}))
	assert.Equal(t, Counts{Total: 3, Filtered: 2}, CountsFor(jobs, Filter{Company: "Imerys"}))
	assert.Equal(t, Counts{Total: 3, Filtered: 1}, CountsFor(jobs, Filter{Status: domain.StatusRejected}))
	assert.Equal(t, Counts{}, CountsFor(nil, Filter{}))
}

func TestUniqueValues(t *testing.T) {
	jobs := fixtureJobs()

	assert.Equal(t, []string{"Geneva, SWZ", "Vevey, SWZ", "Lausanne, SWZ", "Bern, SWZ"}, UniqueLocations(jobs))
	assert.Equal(t, []string{"Imerys", "Nestle", "Logitech", "Roche", "Swisscom"}, UniqueCompanies(jobs))
	assert.Equal(t, []domain.Status{
		domain.StatusApplied,
		domain.StatusInterview,
		domain.StatusOffer,
		domain.StatusRejected,
		domain.StatusWithdrawn,
		domain.StatusNoResponse,
	}, UniqueStatuses(jobs))

	assert.Equal(t, []string{}, UniqueLocations(nil))
	assert.Equal(t, []domain.Status{}, UniqueStatuses(nil))
}

func TestNotesNewestFirst(t *testing.T) {
	notes := domain.Notes{{Note: "a"}, {Note: "b"}, {Note: "c"}}

	got := NotesNewestFirst(notes)
	assert.Equal(t, domain.Notes{{Note: "c"}, {Note: "b"}, {Note: "a"}}, got)
	assert.Equal(t, "a", notes[0].Note)
	assert.Equal(t, domain.Notes{}, NotesNewestFirst(nil))
}

func TestFindByID(t *testing.T) {
	jobs := fixtureJobs()

	got := FindByID(jobs, 4)
	require.NotNil(t, got)
	assert.Equal(t, "Logitech", got.CompanyName)

	got.CompanyName = "changed"
	assert.Equal(t, "Logitech", jobs[3].CompanyName)

	assert.Nil(t, FindByID(jobs, 99))
}

func TestFilterTemplates(t *testing.T) {
	templates := []domain.NoteTemplate{
		{ID: 1, Name: "Follow-up", Content: "Sent a follow-up email"},
		{ID: 2, Name: "Thank you", Content: "Thanked the interviewer"},
	}

	assert.Len(t, FilterTemplates(templates, ""), 2)
	assert.Equal(t, int64(2), FilterTemplates(templates, "INTERVIEW")[0].ID)
	assert.Equal(t, int64(1), FilterTemplates(templates, "follow")[0].ID)
	assert.Empty(t, FilterTemplates(templates, "offer"))
}

func TestInsertTemplateText(t *testing.T) {
	tests := []struct {
		draft, content, want string
	}{
		{"", "Sent a follow-up email", "Sent a follow-up email"},
		{"  \n", "Sent a follow-up email", "Sent a follow-up email"},
		{"Called HR", "Sent a follow-up email", "Called HR\nSent a follow-up email"},
		{"Called HR\n", "Sent a follow-up email", "Called HR\nSent a follow-up email"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InsertTemplateText(tt.draft, tt.content))
	}
}

type fakeSource struct {
	jobs []domain.JobApplication
	err  error
}

func (f *fakeSource) GetAll(context.Context) ([]domain.JobApplication, error) {
	return f.jobs, f.err
}

func TestSession(t *testing.T) {
	src := &fakeSource{jobs: fixtureJobs()}
	s := NewSession(src)

	assert.Empty(t, s.Jobs())
	assert.True(t, s.RefreshedAt().IsZero())
	assert.Equal(t, 0, s.Board(Filter{}).Counts.Total)

	require.NoError(t, s.Refresh(context.Background()))
	assert.False(t, s.RefreshedAt().IsZero())

	board := s.Board(Filter{Company: "Imerys"})
	assert.Equal(t, Counts{Total: 3, Filtered: 2}, board.Counts)
	assert.Equal(t, []int64{1, 3}, ids(board.Jobs))
	assert.Equal(t, []int64{2, 4, 5}, ids(board.Archived))
	assert.Len(t, board.Companies, 5)

	require.NotNil(t, s.Find(6))
	assert.Nil(t, s.Find(99))

	// a failed refresh keeps the previous snapshot
	src.err = errors.New("store offline")
	require.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Jobs(), 6)

	// a successful refresh replaces it wholesale
	src.err = nil
	src.jobs = fixtureJobs()[:1]
	require.NoError(t, s.Refresh(context.Background()))
	assert.Len(t, s.Jobs(), 1)
}

func TestSessionConcurrentReaders(t *testing.T) {
	s := NewSession(&fakeSource{jobs: fixtureJobs()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.NoError(t, s.Refresh(ctx))
				return
			}
			_ = s.Board(Filter{Search: "e"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Jobs(), 6)
}

func TestMergeChoices(t *testing.T) {
	got := MergeChoices(
		[]string{"Remote", "Geneva, SWZ", ""},
		UniqueLocations(fixtureJobs()),
	)
	assert.Equal(t, []string{"Remote", "Geneva, SWZ", "Vevey, SWZ", "Lausanne, SWZ", "Bern, SWZ"}, got)
	assert.Equal(t, []string{}, MergeChoices(nil, nil))
}
