package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/database"
)

type ResumeView struct {
	ID               uuid.UUID        `json:"id"`
	OriginalFilename string           `json:"original_filename"`
	FileURL          string           `json:"file_url"`
	UploadedAt       time.Time        `json:"uploaded_at"`
	Status           string           `json:"status"`
	Profile          analyzer.Profile `json:"summary"`
	CandidateSummary string           `json:"candidate_summary,omitempty"`
	ParsedText       string           `json:"parsed_text,omitempty"`
}

func (s *Service) resumeView(r database.Resume) ResumeView {
	return ResumeView{
		ID:               r.ID,
		OriginalFilename: r.OriginalFilename,
		FileURL:          s.files.URL(r.FilePath),
		UploadedAt:       r.UploadedAt,
		Status:           r.Status,
		Profile:          profileOf(r),
		CandidateSummary: r.CandidateSummary.String,
	}
}

// ListResumes returns the owner's resumes, newest first, without parsed text.
func (s *Service) ListResumes(ctx context.Context, ownerID uuid.UUID) ([]ResumeView, error) {
	rows, err := s.store.ListResumesByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list resumes", err)
	}
	out := make([]ResumeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.resumeView(r))
	}
	return out, nil
}

func (s *Service) GetResume(ctx context.Context, ownerID, id uuid.UUID) (ResumeView, error) {
	r, err := s.store.GetResume(ctx, database.GetResumeParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if database.IsNotFound(err) {
			return ResumeView{}, apperrors.NewNotFoundError("resume", id.String())
		}
		return ResumeView{}, apperrors.NewInternalError("failed to load resume", err)
	}
	v := s.resumeView(r)
	v.ParsedText = r.ParsedText
	return v, nil
}

// DeleteResume removes the record, its report and the stored file.
func (s *Service) DeleteResume(ctx context.Context, ownerID, id uuid.UUID) error {
	path, err := s.store.DeleteResume(ctx, database.DeleteResumeParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if database.IsNotFound(err) {
			return apperrors.NewNotFoundError("resume", id.String())
		}
		return apperrors.NewInternalError("failed to delete resume", err)
	}
	s.removeFiles(ctx, path)
	return nil
}

// BulkDeleteResumes deletes the owner's resumes among ids and returns how many went.
// Ids that do not exist or belong to someone else are ignored.
func (s *Service) BulkDeleteResumes(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids", "Provide a list of resume IDs to delete")
	}
	paths, err := s.store.DeleteResumesByIDs(ctx, database.DeleteResumesByIDsParams{OwnerID: ownerID, Ids: ids})
	if err != nil {
		return 0, apperrors.NewInternalError("failed to delete resumes", err)
	}
	s.removeFiles(ctx, paths...)
	return len(paths), nil
}

func (s *Service) removeFiles(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.files.Delete(ctx, p); err != nil {
			s.log.Warn("failed to delete stored file", map[string]any{"key": p, "error": err})
		}
	}
}
