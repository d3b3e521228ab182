// Package service runs the resume pipeline: upload, parse, dedupe, store and score.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/database"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/lock"
	"github.com/muhammadolammi/resumind/internal/logger"
	"github.com/muhammadolammi/resumind/internal/storage"
)

const (
	resumeDir       = "resumes"
	recomputeLockID = "recompute"

	StatusPending   = "pending"
	StatusProcessed = "processed"
)

// Store is the subset of the record store the service needs. *database.Store satisfies it.
type Store interface {
	CreateResume(ctx context.Context, arg database.CreateResumeParams) (database.Resume, error)
	GetResume(ctx context.Context, arg database.GetResumeParams) (database.Resume, error)
	GetResumeByID(ctx context.Context, id uuid.UUID) (database.Resume, error)
	ListResumes(ctx context.Context) ([]database.Resume, error)
	ListResumesByOwner(ctx context.Context, ownerID uuid.UUID) ([]database.Resume, error)
	UpdateResumeStatus(ctx context.Context, arg database.UpdateResumeStatusParams) error
	DeleteResume(ctx context.Context, arg database.DeleteResumeParams) (string, error)
	DeleteResumesByIDs(ctx context.Context, arg database.DeleteResumesByIDsParams) ([]string, error)
	UpsertReport(ctx context.Context, arg database.UpsertReportParams) error
	UpsertReports(ctx context.Context, reports []database.UpsertReportParams) error
	GetReportByResume(ctx context.Context, resumeID uuid.UUID) (database.Report, error)
	ListReports(ctx context.Context) ([]database.ListReportsRow, error)
}

// Summarizer produces a short free-text candidate summary. It is optional and
// its failures never fail an upload.
type Summarizer interface {
	Summarize(ctx context.Context, profile analyzer.Profile, text string) (string, error)
}

type Service struct {
	store      Store
	files      storage.Storage
	jobs       *jobs.Store
	analyzer   *analyzer.Analyzer
	log        logger.Logger
	locker     lock.Locker
	summarizer Summarizer

	// mu makes a requirement swap and the recompute that follows one step.
	mu sync.Mutex
}

type Option func(*Service)

func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithSummarizer(sum Summarizer) Option {
	return func(s *Service) { s.summarizer = sum }
}

func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(s *Service) { s.analyzer = a }
}

func WithRequirementStore(js *jobs.Store) Option {
	return func(s *Service) { s.jobs = js }
}

func New(store Store, files storage.Storage, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		files:    files,
		jobs:     jobs.NewStore(),
		analyzer: analyzer.New(),
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentRequirement returns a copy of the active requirement.
func (s *Service) CurrentRequirement() jobs.Requirement {
	return s.jobs.Current()
}

func (s *Service) Jobs() []jobs.Title {
	return jobs.Titles()
}

// exclusive serializes fn against every other requirement swap or report write,
// in this process and, when a locker is configured, across processes.
func (s *Service) exclusive(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, recomputeLockID)
		if err != nil {
			return apperrors.NewInternalError("failed to acquire recompute lock", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release recompute lock", map[string]any{"error": err})
			}
		}()
	}
	return fn()
}

// profileOf decodes the stored profile, falling back to the flat columns for
// rows written without one.
func profileOf(r database.Resume) analyzer.Profile {
	var p analyzer.Profile
	if len(r.Profile) > 0 && json.Unmarshal(r.Profile, &p) == nil && !isEmptyProfile(p) {
		p.RawText = r.ParsedText
		return p
	}
	return analyzer.Profile{
		Skills:         splitList(r.Skills),
		Certifications: splitList(r.Certifications),
		Education:      analyzer.EducationLevel(r.Education),
		ProjectsCount:  int(r.Projects),
		RawText:        r.ParsedText,
	}
}

func isEmptyProfile(p analyzer.Profile) bool {
	return p.Name == "" && p.Email == "" && p.Phone == "" && p.LinkedInURL == "" && p.GitHubURL == "" &&
		len(p.Skills) == 0 && p.Education == "" && p.ProjectsCount == 0 && len(p.Certifications) == 0 &&
		p.ExperienceYears == 0
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// displayStatus title-cases a stored status, defaulting to "Completed".
func displayStatus(status string) string {
	if status == "" {
		return "Completed"
	}
	return strings.ToUpper(status[:1]) + strings.ToLower(status[1:])
}

func displayDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
