package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const upsertReport = `-- name: UpsertReport :exec
INSERT INTO reports (
resume_id, score, details)
VALUES ($1, $2, $3)
ON CONFLICT (resume_id)
DO UPDATE SET
    score = EXCLUDED.score,
    details = EXCLUDED.details,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertReportParams struct {
	ResumeID uuid.UUID
	Score    int32
	Details  json.RawMessage
}

func (q *Queries) UpsertReport(ctx context.Context, arg UpsertReportParams) error {
	_, err := q.db.ExecContext(ctx, upsertReport, arg.ResumeID, arg.Score, arg.Details)
	return err
}

const getReportByResume = `-- name: GetReportByResume :one
SELECT resume_id, score, details, created_at, updated_at FROM reports
WHERE resume_id=$1
`

func (q *Queries) GetReportByResume(ctx context.Context, resumeID uuid.UUID) (Report, error) {
	row := q.db.QueryRowContext(ctx, getReportByResume, resumeID)
	var i Report
	err := row.Scan(
		&i.ResumeID,
		&i.Score,
		&i.Details,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listReports = `-- name: ListReports :many
SELECT r.resume_id, r.score, r.details, r.updated_at, s.original_filename, s.file_path, s.profile, s.status, s.uploaded_at
FROM reports r
JOIN resumes s ON s.id = r.resume_id
ORDER BY r.score DESC, s.uploaded_at ASC
`

type ListReportsRow struct {
	ResumeID         uuid.UUID
	Score            int32
	Details          json.RawMessage
	UpdatedAt        time.Time
	OriginalFilename string
	FilePath         string
	Profile          json.RawMessage
	Status           string
	UploadedAt       time.Time
}

func (q *Queries) ListReports(ctx context.Context) ([]ListReportsRow, error) {
	rows, err := q.db.QueryContext(ctx, listReports)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListReportsRow
	for rows.Next() {
		var i ListReportsRow
		if err := rows.Scan(
			&i.ResumeID,
			&i.Score,
			&i.Details,
			&i.UpdatedAt,
			&i.OriginalFilename,
			&i.FilePath,
			&i.Profile,
			&i.Status,
			&i.UploadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
