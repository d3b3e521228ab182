package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/database"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/metrics"
	"github.com/muhammadolammi/resumind/internal/scoring"
)

// ReportView is one scored resume as returned to callers.
type ReportView struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	FileURL  string          `json:"file_url"`
	Date     string          `json:"date"`
	Score    int             `json:"score"`
	Status   string          `json:"status"`
	Analysis json.RawMessage `json:"analysis"`
}

// UpdateRequirement replaces the active requirement and rescores every resume
// against it before returning.
func (s *Service) UpdateRequirement(ctx context.Context, title string, skills []string) (jobs.Requirement, int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return jobs.Requirement{}, 0, apperrors.NewValidationError("job_title", "Job title required")
	}
	if skills == nil {
		skills = []string{}
	}
	return s.swapAndRecompute(ctx, jobs.Requirement{JobTitle: title, RequiredSkills: skills})
}

// SelectJob activates a catalogue title with its default skills. Unknown
// titles get an empty skill list.
func (s *Service) SelectJob(ctx context.Context, title string) (jobs.Requirement, int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return jobs.Requirement{}, 0, apperrors.NewValidationError("job_title", "Job title required")
	}
	return s.swapAndRecompute(ctx, jobs.Requirement{JobTitle: title, RequiredSkills: jobs.SkillsFor(title)})
}

func (s *Service) swapAndRecompute(ctx context.Context, req jobs.Requirement) (jobs.Requirement, int, error) {
	var n int
	err := s.exclusive(ctx, func() error {
		s.jobs.Replace(req)
		var err error
		n, err = s.recomputeLocked(ctx)
		return err
	})
	if err != nil {
		return jobs.Requirement{}, 0, err
	}
	s.log.Info("job requirement updated", map[string]any{
		"job_title": req.JobTitle,
		"skills":    len(req.RequiredSkills),
		"rescored":  n,
	})
	return s.jobs.Current(), n, nil
}

// Recompute rescores every stored resume against one snapshot of the requirement.
func (s *Service) Recompute(ctx context.Context) (int, error) {
	var n int
	err := s.exclusive(ctx, func() error {
		var err error
		n, err = s.recomputeLocked(ctx)
		return err
	})
	return n, err
}

func (s *Service) recomputeLocked(ctx context.Context) (int, error) {
	start := time.Now()
	req := s.jobs.Current()

	resumes, err := s.store.ListResumes(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to list resumes", err)
	}

	params := make([]database.UpsertReportParams, 0, len(resumes))
	for _, r := range resumes {
		p, err := reportParams(r.ID, profileOf(r), req)
		if err != nil {
			return 0, apperrors.NewInternalError("failed to encode report", err)
		}
		params = append(params, p)
	}
	if len(params) > 0 {
		if err := s.store.UpsertReports(ctx, params); err != nil {
			return 0, apperrors.NewInternalError("failed to write reports", err)
		}
	}

	metrics.RecomputePasses.Inc()
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	s.log.Debug("reports recomputed", map[string]any{"count": len(params), "job_title": req.JobTitle})
	return len(params), nil
}

func reportParams(id uuid.UUID, p analyzer.Profile, req jobs.Requirement) (database.UpsertReportParams, error) {
	b := scoring.Score(p, req)
	details, err := json.Marshal(b)
	if err != nil {
		return database.UpsertReportParams{}, err
	}
	return database.UpsertReportParams{ResumeID: id, Score: int32(b.TotalScore), Details: details}, nil
}

// ListReports recomputes all reports, then lists them by score descending and
// upload date ascending.
func (s *Service) ListReports(ctx context.Context) ([]ReportView, error) {
	if _, err := s.Recompute(ctx); err != nil {
		return nil, err
	}

	rows, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reports", err)
	}

	out := make([]ReportView, 0, len(rows))
	for _, r := range rows {
		var p analyzer.Profile
		if len(r.Profile) > 0 {
			if err := json.Unmarshal(r.Profile, &p); err != nil {
				s.log.Warn("failed to decode stored profile", map[string]any{"resume_id": r.ResumeID, "error": err})
			}
		}
		out = append(out, ReportView{
			ID:       r.ResumeID,
			Name:     reportName(p.Name, r.OriginalFilename, r.FilePath),
			FileURL:  s.files.URL(r.FilePath),
			Date:     displayDate(r.UploadedAt),
			Score:    int(r.Score),
			Status:   displayStatus(r.Status),
			Analysis: r.Details,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// GetReport rescores one resume against the active requirement and returns its report.
func (s *Service) GetReport(ctx context.Context, resumeID uuid.UUID) (ReportView, error) {
	r, err := s.store.GetResumeByID(ctx, resumeID)
	if err != nil {
		if database.IsNotFound(err) {
			return ReportView{}, apperrors.NewNotFoundError("report", resumeID.String())
		}
		return ReportView{}, apperrors.NewInternalError("failed to load resume", err)
	}

	profile := profileOf(r)
	err = s.exclusive(ctx, func() error {
		params, err := reportParams(r.ID, profile, s.jobs.Current())
		if err != nil {
			return err
		}
		return s.store.UpsertReport(ctx, params)
	})
	if err != nil {
		return ReportView{}, apperrors.NewInternalError("failed to write report", err)
	}

	report, err := s.store.GetReportByResume(ctx, r.ID)
	if err != nil {
		return ReportView{}, apperrors.NewInternalError("failed to load report", err)
	}

	return ReportView{
		ID:       r.ID,
		Name:     reportName(profile.Name, r.OriginalFilename, r.FilePath),
		FileURL:  s.files.URL(r.FilePath),
		Date:     displayDate(r.UploadedAt),
		Score:    int(report.Score),
		Status:   displayStatus(r.Status),
		Analysis: report.Details,
	}, nil
}

func reportName(name, filename, path string) string {
	switch {
	case name != "":
		return name
	case filename != "":
		return filename
	default:
		return path
	}
}
