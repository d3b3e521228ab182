package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const createResume = `-- name: CreateResume :one
INSERT INTO resumes (
owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status, uploaded_at
`

type CreateResumeParams struct {
	OwnerID          uuid.UUID
	FilePath         string
	OriginalFilename string
	ParsedText       string
	Skills           string
	Certifications   string
	Education        string
	Projects         int32
	Profile          json.RawMessage
	CandidateSummary sql.NullString
	Status           string
}

func (q *Queries) CreateResume(ctx context.Context, arg CreateResumeParams) (Resume, error) {
	row := q.db.QueryRowContext(ctx, createResume,
		arg.OwnerID,
		arg.FilePath,
		arg.OriginalFilename,
		arg.ParsedText,
		arg.Skills,
		arg.Certifications,
		arg.Education,
		arg.Projects,
		arg.Profile,
		arg.CandidateSummary,
		arg.Status,
	)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.FilePath,
		&i.OriginalFilename,
		&i.ParsedText,
		&i.Skills,
		&i.Certifications,
		&i.Education,
		&i.Projects,
		&i.Profile,
		&i.CandidateSummary,
		&i.Status,
		&i.UploadedAt,
	)
	return i, err
}

const getResume = `-- name: GetResume :one
SELECT id, owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status, uploaded_at FROM resumes
WHERE id=$1 AND owner_id=$2
`

type GetResumeParams struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

func (q *Queries) GetResume(ctx context.Context, arg GetResumeParams) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResume, arg.ID, arg.OwnerID)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.FilePath,
		&i.OriginalFilename,
		&i.ParsedText,
		&i.Skills,
		&i.Certifications,
		&i.Education,
		&i.Projects,
		&i.Profile,
		&i.CandidateSummary,
		&i.Status,
		&i.UploadedAt,
	)
	return i, err
}

const getResumeByID = `-- name: GetResumeByID :one
SELECT id, owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status, uploaded_at FROM resumes
WHERE id=$1
`

func (q *Queries) GetResumeByID(ctx context.Context, id uuid.UUID) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResumeByID, id)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.FilePath,
		&i.OriginalFilename,
		&i.ParsedText,
		&i.Skills,
		&i.Certifications,
		&i.Education,
		&i.Projects,
		&i.Profile,
		&i.CandidateSummary,
		&i.Status,
		&i.UploadedAt,
	)
	return i, err
}

const listResumes = `-- name: ListResumes :many
SELECT id, owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status, uploaded_at FROM resumes
ORDER BY uploaded_at DESC
`

func (q *Queries) ListResumes(ctx context.Context) ([]Resume, error) {
	rows, err := q.db.QueryContext(ctx, listResumes)
	if err != nil {
		return nil, err
	}
	return scanResumes(rows)
}

const listResumesByOwner = `-- name: ListResumesByOwner :many
SELECT id, owner_id, file_path, original_filename, parsed_text, skills, certifications, education, projects, profile, candidate_summary, status, uploaded_at FROM resumes
WHERE owner_id=$1
ORDER BY uploaded_at DESC
`

func (q *Queries) ListResumesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Resume, error) {
	rows, err := q.db.QueryContext(ctx, listResumesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	return scanResumes(rows)
}

func scanResumes(rows *sql.Rows) ([]Resume, error) {
	defer rows.Close()
	var items []Resume
	for rows.Next() {
		var i Resume
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.FilePath,
			&i.OriginalFilename,
			&i.ParsedText,
			&i.Skills,
			&i.Certifications,
			&i.Education,
			&i.Projects,
			&i.Profile,
			&i.CandidateSummary,
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

const updateResumeStatus = `-- name: UpdateResumeStatus :exec
UPDATE resumes
SET status=$1
WHERE id=$2
`

type UpdateResumeStatusParams struct {
	Status string
	ID     uuid.UUID
}

func (q *Queries) UpdateResumeStatus(ctx context.Context, arg UpdateResumeStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateResumeStatus, arg.Status, arg.ID)
	return err
}

const deleteResume = `-- name: DeleteResume :one
DELETE FROM resumes
WHERE id=$1 AND owner_id=$2
RETURNING file_path
`

type DeleteResumeParams struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

// DeleteResume returns the stored file path; reports cascade.
func (q *Queries) DeleteResume(ctx context.Context, arg DeleteResumeParams) (string, error) {
	row := q.db.QueryRowContext(ctx, deleteResume, arg.ID, arg.OwnerID)
	var file_path string
	err := row.Scan(&file_path)
	return file_path, err
}

const deleteResumesByIDs = `-- name: DeleteResumesByIDs :many
DELETE FROM resumes
WHERE owner_id=$1 AND id = ANY($2::uuid[])
RETURNING file_path
`

type DeleteResumesByIDsParams struct {
	OwnerID uuid.UUID
	Ids     []uuid.UUID
}

func (q *Queries) DeleteResumesByIDs(ctx context.Context, arg DeleteResumesByIDsParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, deleteResumesByIDs, arg.OwnerID, pq.Array(arg.Ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var file_path string
		if err := rows.Scan(&file_path); err != nil {
			return nil, err
		}
		items = append(items, file_path)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
