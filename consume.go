package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/metrics"
	"github.com/muhammadolammi/resumind/internal/schemas"
	"github.com/muhammadolammi/resumind/internal/service"
	"github.com/muhammadolammi/resumind/internal/storage"
)

var retryBackoff = 500 * time.Millisecond

// retry retries a function up to `attempts` times with linear backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < attempts-1 {
			time.Sleep(retryBackoff * time.Duration(i+1))
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// handleCommand validates the payload against the command's schema and
// dispatches it. The returned value becomes the reply's data.
func (workerConfig *WorkerConfig) handleCommand(ctx context.Context, pub publisher, env Envelope) (any, error) {
	if !schemas.Known(env.Type) {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown command %q, expected one of: %s",
			env.Type, strings.Join(schemas.Commands(), ", ")))
	}
	if err := schemas.Validate(env.Type, env.Payload); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) && len(verr.Errors) > 0 {
			return nil, apperrors.NewValidationError(verr.Errors[0].Field, verr.Error())
		}
		return nil, apperrors.NewValidationError("payload", err.Error())
	}

	svc := workerConfig.Service
	switch env.Type {
	case "upload_batch":
		var p uploadBatchPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		results := workerConfig.uploadBatch(ctx, p)
		workerConfig.notify(pub, "owner."+p.OwnerID.String(), map[string]any{
			"owner_id":  p.OwnerID,
			"status":    batchStatus(results),
			"results":   results,
			"timestamp": time.Now(),
		})
		return map[string]any{"results": results}, nil

	case "update_requirement", "select_job":
		var (
			req  updateRequirementPayload
			curr jobs.Requirement
			n    int
			err  error
		)
		if err := decodePayload(env.Payload, &req); err != nil {
			return nil, err
		}
		if env.Type == "select_job" {
			curr, n, err = svc.SelectJob(ctx, req.JobTitle)
		} else {
			curr, n, err = svc.UpdateRequirement(ctx, req.JobTitle, req.Skills)
		}
		if err != nil {
			return nil, err
		}
		res := requirementResult{JobTitle: curr.JobTitle, Skills: curr.RequiredSkills, Rescored: n}
		workerConfig.notify(pub, "requirement.updated", map[string]any{
			"job_title": res.JobTitle,
			"skills":    res.Skills,
			"rescored":  res.Rescored,
			"timestamp": time.Now(),
		})
		return res, nil

	case "list_jobs":
		return map[string]any{"jobs": svc.Jobs(), "current": svc.CurrentRequirement()}, nil

	case "list_reports":
		reports, err := svc.ListReports(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"reports": reports}, nil

	case "get_report":
		var p reportPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return svc.GetReport(ctx, p.ResumeID)

	case "list_resumes":
		var p ownerPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		resumes, err := svc.ListResumes(ctx, p.OwnerID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"resumes": resumes}, nil

	case "get_resume":
		var p resumePayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return svc.GetResume(ctx, p.OwnerID, p.ResumeID)

	case "delete_resume":
		var p resumePayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if err := svc.DeleteResume(ctx, p.OwnerID, p.ResumeID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": 1}, nil

	case "bulk_delete_resumes":
		var p bulkDeletePayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		n, err := svc.BulkDeleteResumes(ctx, p.OwnerID, p.IDs)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": n}, nil
	}
	return nil, apperrors.NewValidationError("type", fmt.Sprintf("unhandled command %q", env.Type))
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.NewValidationError("payload", err.Error())
	}
	return nil
}

// uploadBatch downloads every object and hands the batch to the service in
// request order. Files that cannot be downloaded are reported as failed.
func (workerConfig *WorkerConfig) uploadBatch(ctx context.Context, p uploadBatchPayload) []service.FileResult {
	results := make([]service.FileResult, len(p.Files))
	var (
		batch []service.UploadFile
		slots []int
	)
	for i, f := range p.Files {
		content, err := retry(3, func() ([]byte, error) {
			return storage.ReadAll(ctx, workerConfig.Files, f.ObjectKey)
		})
		if err != nil {
			workerConfig.Log.Warn("failed to download upload", map[string]any{"object_key": f.ObjectKey, "error": err})
			results[i] = service.FileResult{
				Filename: f.Filename,
				Status:   service.FileFailed,
				Error:    fmt.Sprintf("file download error: %v", err),
			}
			metrics.FilesProcessed.WithLabelValues(service.FileFailed).Inc()
			continue
		}
		batch = append(batch, service.UploadFile{Filename: f.Filename, Content: content})
		slots = append(slots, i)
	}

	if len(batch) > 0 {
		for j, res := range workerConfig.Service.UploadBatch(ctx, p.OwnerID, batch) {
			results[slots[j]] = res
		}
	}
	return results
}

// batchStatus summarizes a batch for the owner update: processed when any file
// was parsed, failed when every file failed, skipped otherwise.
func batchStatus(results []service.FileResult) string {
	failed := 0
	for _, r := range results {
		switch r.Status {
		case service.FileParsed:
			return "processed"
		case service.FileFailed:
			failed++
		}
	}
	if len(results) > 0 && failed == len(results) {
		return "failed"
	}
	return "skipped"
}

func (workerConfig *WorkerConfig) notify(pub publisher, routingKey string, update map[string]any) {
	if pub == nil {
		return
	}
	if err := publishUpdate(pub, workerConfig.Exchange, routingKey, update); err != nil {
		workerConfig.Log.Warn("failed to publish update", map[string]any{"routing_key": routingKey, "error": err})
	}
}

// process turns one delivery body into a reply. It never fails: every error
// is carried in the reply.
func (workerConfig *WorkerConfig) process(ctx context.Context, pub publisher, body []byte) Reply {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.CommandsHandled.WithLabelValues("invalid", "error").Inc()
		return Reply{Error: apperrors.NewValidationError("body", "malformed envelope: "+err.Error())}
	}

	label := env.Type
	if !schemas.Known(label) {
		label = "unknown"
	}
	log := workerConfig.Log.WithFields(map[string]any{"type": env.Type, "request_id": env.RequestID})
	start := time.Now()
	data, err := workerConfig.handleCommand(ctx, pub, env)
	reply := Reply{Type: env.Type, RequestID: env.RequestID}
	if err != nil {
		reply.Error = asAppError(err)
		metrics.CommandsHandled.WithLabelValues(label, "error").Inc()
		log.Warn("command failed", map[string]any{"code": reply.Error.Code, "error": err})
		return reply
	}
	reply.OK = true
	reply.Data = data
	metrics.CommandsHandled.WithLabelValues(label, "ok").Inc()
	log.Info("command handled", map[string]any{"duration_ms": time.Since(start).Milliseconds()})
	return reply
}

func asAppError(err error) *apperrors.Error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError("command failed", err)
}

func worker(ctx context.Context, id int, workerConfig *WorkerConfig) error {
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		workerConfig.Exchange, // name
		"topic",               // kind
		true,                  // durable
		false,                 // auto-delete
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		workerConfig.Queue, // queue name
		true,               // durable (survives broker restarts)
		false,              // auto-delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		workerConfig.Queue, // queue name
		"",                 // consumer tag
		true,               // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	log := workerConfig.Log.WithFields(map[string]any{"worker_id": id + 1})
	log.Info("worker started", nil)

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping", nil)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id+1)
			}
			reply := workerConfig.process(ctx, ch, msg.Body)
			if msg.ReplyTo == "" {
				continue
			}
			if err := sendReply(ch, msg.ReplyTo, msg.CorrelationId, reply); err != nil {
				log.Error("failed to send reply", map[string]any{"reply_to": msg.ReplyTo, "error": err})
			}
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers until ctx is cancelled or
// one of them fails.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range numWorkers {
		g.Go(func() error {
			return worker(ctx, i, workerConfig)
		})
	}
	return g.Wait()
}
