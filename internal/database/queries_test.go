package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resumeColumns = []string{
	"id", "owner_id", "file_path", "original_filename", "parsed_text", "skills", "certifications",
	"education", "projects", "profile", "candidate_summary", "status", "uploaded_at",
}

func newMock(t *testing.T) (*Queries, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

func TestCreateResume(t *testing.T) {
	q, mock := newMock(t)
	id, owner := uuid.New(), uuid.New()
	uploaded := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	profile := json.RawMessage(`{"name":"Jane Doe"}`)

	mock.ExpectQuery(createResume).
		WithArgs(owner, "resumes/cv.pdf", "cv.pdf", "text", "Python,SQL", "", "bachelor", int32(2), profile, sql.NullString{}, "pending").
		WillReturnRows(sqlmock.NewRows(resumeColumns).AddRow(
			id.String(), owner.String(), "resumes/cv.pdf", "cv.pdf", "text", "Python,SQL", "", "bachelor", 2, []byte(profile), nil, "pending", uploaded,
		))

	got, err := q.CreateResume(context.Background(), CreateResumeParams{
		OwnerID:          owner,
		FilePath:         "resumes/cv.pdf",
		OriginalFilename: "cv.pdf",
		ParsedText:       "text",
		Skills:           "Python,SQL",
		Education:        "bachelor",
		Projects:         2,
		Profile:          profile,
		Status:           "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int32(2), got.Projects)
	assert.JSONEq(t, `{"name":"Jane Doe"}`, string(got.Profile))
	assert.False(t, got.CandidateSummary.Valid)
	assert.Equal(t, uploaded, got.UploadedAt)
}

func TestGetResume_NotFound(t *testing.T) {
	q, mock := newMock(t)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(getResume).WithArgs(id, owner).WillReturnError(sql.ErrNoRows)

	_, err := q.GetResume(context.Background(), GetResumeParams{ID: id, OwnerID: owner})
	assert.True(t, IsNotFound(err))
}

func TestListResumesByOwner(t *testing.T) {
	q, mock := newMock(t)
	owner := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(resumeColumns).
		AddRow(uuid.NewString(), owner.String(), "resumes/a.txt", "a.txt", "", "", "", "none", 0, []byte(`{}`), "summary a", "processed", now).
		AddRow(uuid.NewString(), owner.String(), "resumes/b.txt", "b.txt", "", "", "", "none", 0, []byte(`{}`), nil, "processed", now.Add(-time.Hour))
	mock.ExpectQuery(listResumesByOwner).WithArgs(owner).WillReturnRows(rows)

	got, err := q.ListResumesByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.txt", got[0].OriginalFilename)
	assert.Equal(t, sql.NullString{String: "summary a", Valid: true}, got[0].CandidateSummary)
}

func TestListResumes_QueryError(t *testing.T) {
	q, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(listResumes).WillReturnError(boom)

	_, err := q.ListResumes(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDeleteResumesByIDs(t *testing.T) {
	q, mock := newMock(t)
	owner := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectQuery(deleteResumesByIDs).
		WithArgs(owner, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow("resumes/a.pdf").AddRow("resumes/b.pdf"))

	paths, err := q.DeleteResumesByIDs(context.Background(), DeleteResumesByIDsParams{OwnerID: owner, Ids: ids})
	require.NoError(t, err)
	assert.Equal(t, []string{"resumes/a.pdf", "resumes/b.pdf"}, paths)
}

func TestDeleteResume(t *testing.T) {
	q, mock := newMock(t)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(deleteResume).WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow("resumes/a.pdf"))

	path, err := q.DeleteResume(context.Background(), DeleteResumeParams{ID: id, OwnerID: owner})
	require.NoError(t, err)
	assert.Equal(t, "resumes/a.pdf", path)
}

func TestUpdateResumeStatus(t *testing.T) {
	q, mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec(updateResumeStatus).WithArgs("processed", id).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, q.UpdateResumeStatus(context.Background(), UpdateResumeStatusParams{Status: "processed", ID: id}))
}

func TestUpsertReport(t *testing.T) {
	q, mock := newMock(t)
	id := uuid.New()
	details := json.RawMessage(`{"total_score":43}`)

	mock.ExpectExec(upsertReport).WithArgs(id, int32(43), details).WillReturnResult(sqlmock.NewResult(0, 1))

	err := q.UpsertReport(context.Background(), UpsertReportParams{ResumeID: id, Score: 43, Details: details})
	require.NoError(t, err)
}

func TestListReports(t *testing.T) {
	q, mock := newMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(listReports).WillReturnRows(
		sqlmock.NewRows([]string{"resume_id", "score", "details", "updated_at", "original_filename", "file_path", "profile", "status", "uploaded_at"}).
			AddRow(id.String(), 77, []byte(`{"total_score":77}`), now, "cv.pdf", "resumes/cv.pdf", []byte(`{"name":"Jane"}`), "processed", now),
	)

	got, err := q.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ResumeID)
	assert.Equal(t, int32(77), got[0].Score)
	assert.Equal(t, "resumes/cv.pdf", got[0].FilePath)
}
