package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/logger"
	"github.com/muhammadolammi/resumind/internal/service"
	"github.com/muhammadolammi/resumind/internal/storage"
)

type fakeService struct {
	mu       sync.Mutex
	uploaded []service.UploadFile
	req      jobs.Requirement
	deleted  []uuid.UUID
	err      error
}

func (f *fakeService) UploadBatch(_ context.Context, _ uuid.UUID, files []service.UploadFile) []service.FileResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, files...)
	out := make([]service.FileResult, len(files))
	for i, file := range files {
		out[i] = service.FileResult{Filename: file.Filename, Status: service.FileParsed}
	}
	return out
}

func (f *fakeService) UpdateRequirement(_ context.Context, title string, skills []string) (jobs.Requirement, int, error) {
	if f.err != nil {
		return jobs.Requirement{}, 0, f.err
	}
	if title == "" {
		return jobs.Requirement{}, 0, apperrors.NewValidationError("job_title", "Job title required")
	}
	f.req = jobs.Requirement{JobTitle: title, RequiredSkills: skills}
	return f.req, 2, nil
}

func (f *fakeService) SelectJob(_ context.Context, title string) (jobs.Requirement, int, error) {
	f.req = jobs.Requirement{JobTitle: title, RequiredSkills: jobs.SkillsFor(title)}
	return f.req, 2, nil
}

func (f *fakeService) Jobs() []jobs.Title                  { return jobs.Titles() }
func (f *fakeService) CurrentRequirement() jobs.Requirement { return f.req }

func (f *fakeService) ListReports(context.Context) ([]service.ReportView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []service.ReportView{{Name: "Jane", Score: 43}}, nil
}

func (f *fakeService) GetReport(_ context.Context, id uuid.UUID) (service.ReportView, error) {
	return service.ReportView{}, apperrors.NewNotFoundError("report", id.String())
}

func (f *fakeService) ListResumes(context.Context, uuid.UUID) ([]service.ResumeView, error) {
	return []service.ResumeView{}, nil
}

func (f *fakeService) GetResume(_ context.Context, _, id uuid.UUID) (service.ResumeView, error) {
	return service.ResumeView{ID: id}, nil
}

func (f *fakeService) DeleteResume(_ context.Context, _, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) BulkDeleteResumes(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids", "Provide a list of resume IDs to delete")
	}
	f.deleted = append(f.deleted, ids...)
	return len(ids), nil
}

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type recordingPublisher struct {
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func newTestWorkerConfig(t *testing.T, svc ResumeService) (*WorkerConfig, storage.Storage) {
	t.Helper()
	files, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	return &WorkerConfig{
		Service:  svc,
		Files:    files,
		Log:      logger.NewTestLogger(t),
		Queue:    commandQueue,
		Exchange: updateExchange,
	}, files
}

func envelope(t *testing.T, typ string, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(Envelope{Type: typ, RequestID: "req-1", Payload: raw})
	require.NoError(t, err)
	return body
}

func TestRetry(t *testing.T) {
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = 500 * time.Millisecond })

	calls := 0
	got, err := retry(3, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("boom")
	_, err = retry(2, func() (string, error) {
		calls++
		return "", boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestProcess_MalformedEnvelope(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})

	reply := cfg.process(context.Background(), nil, []byte("{not json"))

	assert.False(t, reply.OK)
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeValidation, reply.Error.Code)
}

func TestProcess_UnknownCommand(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})

	reply := cfg.process(context.Background(), nil, envelope(t, "drop_tables", map[string]any{}))

	assert.False(t, reply.OK)
	assert.Equal(t, "req-1", reply.RequestID)
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeValidation, reply.Error.Code)
	assert.Contains(t, reply.Error.Message, "drop_tables")
	assert.Contains(t, reply.Error.Message, "upload_batch")
}

func TestProcess_SchemaViolation(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})

	reply := cfg.process(context.Background(), nil, envelope(t, "get_report", map[string]any{"resume_id": "not-a-uuid"}))

	assert.False(t, reply.OK)
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeValidation, reply.Error.Code)
}

func TestProcess_ErrorCodesPassThrough(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})

	reply := cfg.process(context.Background(), nil, envelope(t, "get_report", map[string]any{"resume_id": uuid.NewString()}))
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeNotFound, reply.Error.Code)

	reply = cfg.process(context.Background(), nil, envelope(t, "update_requirement", map[string]any{"job_title": ""}))
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeValidation, reply.Error.Code)
	assert.Equal(t, "Job title required", reply.Error.Message)
}

func TestProcess_PlainErrorsBecomeInternal(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{err: errors.New("db down")})

	reply := cfg.process(context.Background(), nil, envelope(t, "list_reports", map[string]any{}))

	assert.False(t, reply.OK)
	require.NotNil(t, reply.Error)
	assert.Equal(t, apperrors.ErrCodeInternal, reply.Error.Code)
}

func TestHandleCommand_UpdateRequirementPublishes(t *testing.T) {
	svc := &fakeService{}
	cfg, _ := newTestWorkerConfig(t, svc)
	pub := &recordingPublisher{}

	reply := cfg.process(context.Background(), pub, envelope(t, "update_requirement", map[string]any{
		"job_title": "Backend Engineer",
		"skills":    []string{"Go", "SQL"},
	}))

	require.True(t, reply.OK, "%+v", reply.Error)
	res, ok := reply.Data.(requirementResult)
	require.True(t, ok)
	assert.Equal(t, "Backend Engineer", res.JobTitle)
	assert.Equal(t, []string{"Go", "SQL"}, res.Skills)
	assert.Equal(t, 2, res.Rescored)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, updateExchange, pub.msgs[0].exchange)
	assert.Equal(t, "requirement.updated", pub.msgs[0].key)
	var body map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0].msg.Body, &body))
	assert.Equal(t, "Backend Engineer", body["job_title"])
}

func TestHandleCommand_SelectJob(t *testing.T) {
	svc := &fakeService{}
	cfg, _ := newTestWorkerConfig(t, svc)

	data, err := cfg.handleCommand(context.Background(), nil, Envelope{
		Type:    "select_job",
		Payload: json.RawMessage(`{"job_title":"DevOps Engineer"}`),
	})
	require.NoError(t, err)
	res := data.(requirementResult)
	assert.Equal(t, "DevOps Engineer", res.JobTitle)
	assert.Equal(t, jobs.SkillsFor("DevOps Engineer"), res.Skills)
}

func TestHandleCommand_ListJobsAcceptsEmptyPayload(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})

	data, err := cfg.handleCommand(context.Background(), nil, Envelope{Type: "list_jobs"})
	require.NoError(t, err)
	m := data.(map[string]any)
	assert.Equal(t, jobs.Titles(), m["jobs"])
}

func TestHandleCommand_Deletes(t *testing.T) {
	svc := &fakeService{}
	cfg, _ := newTestWorkerConfig(t, svc)
	owner, a, b := uuid.New(), uuid.New(), uuid.New()

	data, err := cfg.handleCommand(context.Background(), nil, Envelope{
		Type:    "bulk_delete_resumes",
		Payload: json.RawMessage(`{"owner_id":"` + owner.String() + `","ids":["` + a.String() + `","` + b.String() + `"]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"deleted": 2}, data)
	assert.Equal(t, []uuid.UUID{a, b}, svc.deleted)

	_, err = cfg.handleCommand(context.Background(), nil, Envelope{
		Type:    "bulk_delete_resumes",
		Payload: json.RawMessage(`{"owner_id":"` + owner.String() + `","ids":[]}`),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestUploadBatch_DownloadFailureKeepsOrder(t *testing.T) {
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = 500 * time.Millisecond })

	svc := &fakeService{}
	cfg, files := newTestWorkerConfig(t, svc)
	require.NoError(t, files.Save(context.Background(), "incoming/a.txt", []byte("Jane Doe")))
	require.NoError(t, files.Save(context.Background(), "incoming/c.txt", []byte("Ann Lee")))
	owner := uuid.New()
	pub := &recordingPublisher{}

	data, err := cfg.handleCommand(context.Background(), pub, Envelope{
		Type: "upload_batch",
		Payload: json.RawMessage(`{"owner_id":"` + owner.String() + `","files":[` +
			`{"filename":"a.txt","object_key":"incoming/a.txt"},` +
			`{"filename":"b.txt","object_key":"incoming/missing.txt"},` +
			`{"filename":"c.txt","object_key":"incoming/c.txt"}]}`),
	})
	require.NoError(t, err)

	results := data.(map[string]any)["results"].([]service.FileResult)
	require.Len(t, results, 3)
	assert.Equal(t, "a.txt", results[0].Filename)
	assert.Equal(t, service.FileParsed, results[0].Status)
	assert.Equal(t, "b.txt", results[1].Filename)
	assert.Equal(t, service.FileFailed, results[1].Status)
	assert.Contains(t, results[1].Error, "file download error")
	assert.Equal(t, "c.txt", results[2].Filename)
	assert.Equal(t, service.FileParsed, results[2].Status)

	require.Len(t, svc.uploaded, 2)
	assert.Equal(t, []byte("Jane Doe"), svc.uploaded[0].Content)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "owner."+owner.String(), pub.msgs[0].key)
	var update map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0].msg.Body, &update))
	assert.Equal(t, "processed", update["status"])
}

func TestUploadBatch_AllDownloadsFailedIsReportedFailed(t *testing.T) {
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = 500 * time.Millisecond })

	svc := &fakeService{}
	cfg, _ := newTestWorkerConfig(t, svc)
	pub := &recordingPublisher{}

	_, err := cfg.handleCommand(context.Background(), pub, Envelope{
		Type: "upload_batch",
		Payload: json.RawMessage(`{"owner_id":"` + uuid.NewString() + `","files":[` +
			`{"filename":"a.txt","object_key":"incoming/missing.txt"}]}`),
	})
	require.NoError(t, err)
	assert.Empty(t, svc.uploaded)

	require.Len(t, pub.msgs, 1)
	var update map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0].msg.Body, &update))
	assert.Equal(t, "failed", update["status"])
}

func TestBatchStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"one parsed", []string{service.FileFailed, service.FileParsed}, "processed"},
		{"all failed", []string{service.FileFailed, service.FileFailed}, "failed"},
		{"duplicates only", []string{service.FileSkippedDuplicate}, "skipped"},
		{"skipped and failed", []string{service.FileSkippedUnsupported, service.FileFailed}, "skipped"},
		{"empty", nil, "skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]service.FileResult, len(tt.statuses))
			for i, s := range tt.statuses {
				results[i].Status = s
			}
			assert.Equal(t, tt.want, batchStatus(results))
		})
	}
}

func TestNotify_PublishErrorIsNotFatal(t *testing.T) {
	cfg, _ := newTestWorkerConfig(t, &fakeService{})
	pub := &recordingPublisher{err: errors.New("channel closed")}

	reply := cfg.process(context.Background(), pub, envelope(t, "select_job", map[string]any{"job_title": "Data Analyst"}))

	assert.True(t, reply.OK)
}

func TestSendReply(t *testing.T) {
	pub := &recordingPublisher{}

	err := sendReply(pub, "amq.gen-reply", "corr-9", Reply{OK: true, Type: "list_jobs", RequestID: "req-1"})
	require.NoError(t, err)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "", pub.msgs[0].exchange)
	assert.Equal(t, "amq.gen-reply", pub.msgs[0].key)
	assert.Equal(t, "corr-9", pub.msgs[0].msg.CorrelationId)
	assert.JSONEq(t, `{"ok":true,"type":"list_jobs","request_id":"req-1"}`, string(pub.msgs[0].msg.Body))
}

func TestAnalyzeLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\njane@example.com\nSkills: Python, SQL\n"), 0o644))

	out, err := analyzeLocalFile(path, "", []string{"python", "sql", "aws"})
	require.NoError(t, err)
	assert.Equal(t, "jane.txt", out.Filename)
	assert.Equal(t, "jane@example.com", out.Profile.Email)
	assert.Equal(t, []string{"python", "sql"}, out.Analysis.RequiredSkillsMatched)
	assert.Equal(t, []string{"aws"}, out.Analysis.RequiredSkillsMissing)

	_, err = analyzeLocalFile(filepath.Join(dir, "cv.png"), "", nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnsupportedFormat))
}
