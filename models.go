package main

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/logger"
	"github.com/muhammadolammi/resumind/internal/service"
	"github.com/muhammadolammi/resumind/internal/storage"
)

const (
	commandQueue   = "resumind.commands"
	updateExchange = "resume_updates"
)

// ResumeService is the slice of service.Service the consumers dispatch to.
type ResumeService interface {
	UploadBatch(ctx context.Context, ownerID uuid.UUID, files []service.UploadFile) []service.FileResult
	UpdateRequirement(ctx context.Context, title string, skills []string) (jobs.Requirement, int, error)
	SelectJob(ctx context.Context, title string) (jobs.Requirement, int, error)
	Jobs() []jobs.Title
	CurrentRequirement() jobs.Requirement
	ListReports(ctx context.Context) ([]service.ReportView, error)
	GetReport(ctx context.Context, resumeID uuid.UUID) (service.ReportView, error)
	ListResumes(ctx context.Context, ownerID uuid.UUID) ([]service.ResumeView, error)
	GetResume(ctx context.Context, ownerID, id uuid.UUID) (service.ResumeView, error)
	DeleteResume(ctx context.Context, ownerID, id uuid.UUID) error
	BulkDeleteResumes(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int, error)
}

// publisher is satisfied by *amqp.Channel.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type WorkerConfig struct {
	Service     ResumeService
	Files       storage.Storage
	Log         logger.Logger
	RABBITMQUrl string
	Queue       string
	Exchange    string
}

// Envelope is the body of every message on the command queue.
type Envelope struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Payload   json.RawMessage `json:"payload"`
}

type Reply struct {
	OK        bool             `json:"ok"`
	Type      string           `json:"type"`
	RequestID string           `json:"request_id,omitempty"`
	Data      any              `json:"data,omitempty"`
	Error     *apperrors.Error `json:"error,omitempty"`
}

type uploadedObject struct {
	Filename  string `json:"filename"`
	ObjectKey string `json:"object_key"`
}

type uploadBatchPayload struct {
	OwnerID uuid.UUID        `json:"owner_id"`
	Files   []uploadedObject `json:"files"`
}

type updateRequirementPayload struct {
	JobTitle string   `json:"job_title"`
	Skills   []string `json:"skills"`
}

type reportPayload struct {
	ResumeID uuid.UUID `json:"resume_id"`
}

type ownerPayload struct {
	OwnerID uuid.UUID `json:"owner_id"`
}

type resumePayload struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	ResumeID uuid.UUID `json:"resume_id"`
}

type bulkDeletePayload struct {
	OwnerID uuid.UUID   `json:"owner_id"`
	IDs     []uuid.UUID `json:"ids"`
}

type requirementResult struct {
	JobTitle string   `json:"job_title"`
	Skills   []string `json:"skills"`
	Rescored int      `json:"rescored"`
}
