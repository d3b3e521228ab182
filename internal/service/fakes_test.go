package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/database"
)

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]database.Resume
	reports map[uuid.UUID]database.Report
	clock   time.Time

	createErr error
	listErr   error
	upserts   int
}

func newMemStore() *memStore {
	return &memStore{
		resumes: map[uuid.UUID]database.Resume{},
		reports: map[uuid.UUID]database.Report{},
		clock:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) CreateResume(_ context.Context, arg database.CreateResumeParams) (database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return database.Resume{}, m.createErr
	}
	m.clock = m.clock.Add(time.Minute)
	r := database.Resume{
		ID:               uuid.New(),
		OwnerID:          arg.OwnerID,
		FilePath:         arg.FilePath,
		OriginalFilename: arg.OriginalFilename,
		ParsedText:       arg.ParsedText,
		Skills:           arg.Skills,
		Certifications:   arg.Certifications,
		Education:        arg.Education,
		Projects:         arg.Projects,
		Profile:          arg.Profile,
		CandidateSummary: arg.CandidateSummary,
		Status:           arg.Status,
		UploadedAt:       m.clock,
	}
	m.resumes[r.ID] = r
	return r, nil
}

func (m *memStore) GetResume(_ context.Context, arg database.GetResumeParams) (database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[arg.ID]
	if !ok || r.OwnerID != arg.OwnerID {
		return database.Resume{}, sql.ErrNoRows
	}
	return r, nil
}

func (m *memStore) GetResumeByID(_ context.Context, id uuid.UUID) (database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok {
		return database.Resume{}, sql.ErrNoRows
	}
	return r, nil
}

func (m *memStore) sorted(filter func(database.Resume) bool) []database.Resume {
	var out []database.Resume
	for _, r := range m.resumes {
		if filter(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

func (m *memStore) ListResumes(context.Context) ([]database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(database.Resume) bool { return true }), nil
}

func (m *memStore) ListResumesByOwner(_ context.Context, owner uuid.UUID) ([]database.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(r database.Resume) bool { return r.OwnerID == owner }), nil
}

func (m *memStore) UpdateResumeStatus(_ context.Context, arg database.UpdateResumeStatusParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[arg.ID]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = arg.Status
	m.resumes[arg.ID] = r
	return nil
}

func (m *memStore) DeleteResume(_ context.Context, arg database.DeleteResumeParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[arg.ID]
	if !ok || r.OwnerID != arg.OwnerID {
		return "", sql.ErrNoRows
	}
	delete(m.resumes, arg.ID)
	delete(m.reports, arg.ID)
	return r.FilePath, nil
}

func (m *memStore) DeleteResumesByIDs(_ context.Context, arg database.DeleteResumesByIDsParams) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var paths []string
	for _, id := range arg.Ids {
		r, ok := m.resumes[id]
		if !ok || r.OwnerID != arg.OwnerID {
			continue
		}
		delete(m.resumes, id)
		delete(m.reports, id)
		paths = append(paths, r.FilePath)
	}
	return paths, nil
}

func (m *memStore) UpsertReport(_ context.Context, arg database.UpsertReportParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(arg)
}

func (m *memStore) upsertLocked(arg database.UpsertReportParams) error {
	if _, ok := m.resumes[arg.ResumeID]; !ok {
		return errors.New("foreign key violation")
	}
	m.upserts++
	rep, ok := m.reports[arg.ResumeID]
	if !ok {
		rep.CreatedAt = m.clock
	}
	rep.ResumeID = arg.ResumeID
	rep.Score = arg.Score
	rep.Details = arg.Details
	rep.UpdatedAt = m.clock
	m.reports[arg.ResumeID] = rep
	return nil
}

func (m *memStore) UpsertReports(_ context.Context, reports []database.UpsertReportParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reports {
		if err := m.upsertLocked(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) GetReportByResume(_ context.Context, id uuid.UUID) (database.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok {
		return database.Report{}, sql.ErrNoRows
	}
	return rep, nil
}

func (m *memStore) ListReports(context.Context) ([]database.ListReportsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.ListReportsRow
	for id, rep := range m.reports {
		r := m.resumes[id]
		out = append(out, database.ListReportsRow{
			ResumeID:         id,
			Score:            rep.Score,
			Details:          rep.Details,
			UpdatedAt:        rep.UpdatedAt,
			OriginalFilename: r.OriginalFilename,
			FilePath:         r.FilePath,
			Profile:          r.Profile,
			Status:           r.Status,
			UploadedAt:       r.UploadedAt,
		})
	}
	// map order; the service sorts
	return out, nil
}

type countingLocker struct {
	mu       sync.Mutex
	acquired int
	released int
	err      error
}

func (c *countingLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.acquired++
	return func(context.Context) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.released++
		return nil
	}, nil
}
