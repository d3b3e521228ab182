package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/database"
	"github.com/muhammadolammi/resumind/internal/dedupe"
	"github.com/muhammadolammi/resumind/internal/extract"
	"github.com/muhammadolammi/resumind/internal/metrics"
	"github.com/muhammadolammi/resumind/internal/storage"
)

// Per-file upload outcomes.
const (
	FileParsed             = "parsed"
	FileSkippedUnsupported = "skipped_unsupported"
	FileSkippedDuplicate   = "skipped_duplicate"
	FileFailed             = "failed"
)

type UploadFile struct {
	Filename string
	Content  []byte
}

// FileResult is reported for every file of a batch. Filename is the stored
// name once the file is saved. Profile fields are inlined for parsed files.
type FileResult struct {
	Filename         string     `json:"filename"`
	Status           string     `json:"status"`
	ID               *uuid.UUID `json:"id,omitempty"`
	FileURL          string     `json:"file_url,omitempty"`
	Warning          string     `json:"warning,omitempty"`
	Error            string     `json:"error,omitempty"`
	CandidateSummary string     `json:"candidate_summary,omitempty"`
	*analyzer.Profile
}

// UploadBatch processes files in order. Each file's outcome is independent:
// nothing that goes wrong with one file stops the rest.
func (s *Service) UploadBatch(ctx context.Context, ownerID uuid.UUID, files []UploadFile) []FileResult {
	results := make([]FileResult, 0, len(files))
	batch := &ownerProfiles{owner: ownerID}

	for _, f := range files {
		res := s.uploadOne(ctx, batch, f)
		metrics.FilesProcessed.WithLabelValues(res.Status).Inc()
		results = append(results, res)
	}
	return results
}

// ownerProfiles caches the owner's stored profiles for one batch so files
// earlier in the batch count as existing for later ones.
type ownerProfiles struct {
	owner  uuid.UUID
	loaded bool
	stored []dedupe.Stored
}

func (s *Service) load(ctx context.Context, op *ownerProfiles) error {
	if op.loaded {
		return nil
	}
	rows, err := s.store.ListResumesByOwner(ctx, op.owner)
	if err != nil {
		return err
	}
	for _, r := range rows {
		op.stored = append(op.stored, dedupe.Stored{OwnerID: r.OwnerID, Profile: profileOf(r)})
	}
	op.loaded = true
	return nil
}

func (s *Service) uploadOne(ctx context.Context, batch *ownerProfiles, f UploadFile) FileResult {
	res := FileResult{Filename: f.Filename}
	log := s.log.WithFields(map[string]any{"filename": f.Filename, "owner_id": batch.owner})

	format, err := extract.FormatFromFilename(f.Filename)
	if err != nil {
		res.Status = FileSkippedUnsupported
		return res
	}

	text, err := extract.Extract(extract.RawDocument{Content: f.Content, Format: format})
	if err != nil {
		log.Warn("text extraction failed, continuing with empty text", map[string]any{"error": err})
		res.Warning = err.Error()
		text = ""
	}

	profile := s.analyzer.Analyze(text)

	if err := s.load(ctx, batch); err != nil {
		return failed(res, "failed to load existing resumes", err)
	}
	if field, dup := dedupe.Match(profile, batch.owner, batch.stored); dup {
		log.Info("duplicate resume skipped", map[string]any{"field": field})
		res.Status = FileSkippedDuplicate
		res.Warning = apperrors.NewDuplicateError(field).Error()
		return res
	}

	summary := s.summarize(ctx, profile, text)

	key, err := storage.SaveUnique(ctx, s.files, resumeDir, f.Filename, f.Content)
	if err != nil {
		return failed(res, "failed to store file", err)
	}
	res.Filename = path.Base(key)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return failed(res, "failed to encode profile", err)
	}

	record, err := s.store.CreateResume(ctx, database.CreateResumeParams{
		OwnerID:          batch.owner,
		FilePath:         key,
		OriginalFilename: f.Filename,
		ParsedText:       profile.RawText,
		Skills:           strings.Join(profile.Skills, ","),
		Certifications:   strings.Join(profile.Certifications, ","),
		Education:        string(profile.Education),
		Projects:         int32(profile.ProjectsCount),
		Profile:          profileJSON,
		CandidateSummary: sql.NullString{String: summary, Valid: summary != ""},
		Status:           StatusPending,
	})
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Warn("failed to remove orphaned file", map[string]any{"key": key, "error": delErr})
		}
		return failed(res, "failed to save resume record", err)
	}
	batch.stored = append(batch.stored, dedupe.Stored{OwnerID: batch.owner, Profile: profile})

	if err := s.scoreNew(ctx, record.ID, profile); err != nil {
		log.Warn("initial report not written", map[string]any{"resume_id": record.ID, "error": err})
		res.Warning = joinWarnings(res.Warning, "report pending: "+err.Error())
	}

	id := record.ID
	res.Status = FileParsed
	res.ID = &id
	res.FileURL = s.files.URL(key)
	res.CandidateSummary = summary
	res.Profile = &profile
	log.Info("resume parsed", map[string]any{"resume_id": id, "skills": len(profile.Skills)})
	return res
}

// scoreNew writes the first report for a fresh record and marks it processed.
func (s *Service) scoreNew(ctx context.Context, id uuid.UUID, profile analyzer.Profile) error {
	return s.exclusive(ctx, func() error {
		params, err := reportParams(id, profile, s.jobs.Current())
		if err != nil {
			return err
		}
		if err := s.store.UpsertReport(ctx, params); err != nil {
			return err
		}
		return s.store.UpdateResumeStatus(ctx, database.UpdateResumeStatusParams{Status: StatusProcessed, ID: id})
	})
}

func (s *Service) summarize(ctx context.Context, profile analyzer.Profile, text string) string {
	if s.summarizer == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	summary, err := s.summarizer.Summarize(ctx, profile, text)
	if err != nil {
		s.log.Warn("candidate summary failed", map[string]any{"error": err})
		return ""
	}
	return summary
}

func failed(res FileResult, msg string, err error) FileResult {
	res.Status = FileFailed
	res.Error = fmt.Sprintf("%s: %v", msg, err)
	return res
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
