// Package cloudtasks schedules job execution through Google Cloud Tasks.
// Each enqueued job becomes an HTTP task that POSTs back to the service's
// job executor endpoint; the queue owns retry and dispatch timing.
package cloudtasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	tasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/scoutiq/landscape-api/internal/config"
	"github.com/scoutiq/landscape-api/internal/domain"
)

// Enqueuer creates Cloud Tasks that call the job executor endpoint.
type Enqueuer struct {
	client    *tasks.Client
	logger    *slog.Logger
	queuePath string
	cfg       config.TasksConfig
}

// callbackPayload is the body the executor endpoint receives.
type callbackPayload struct {
	JobID string          `json:"jobId"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnqueuer creates an Enqueuer against the configured queue. The caller
// must Close it on shutdown.
func NewEnqueuer(ctx context.Context, cfg config.TasksConfig, log *slog.Logger) (*Enqueuer, error) {
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.Queue == "" {
		return nil, fmt.Errorf("cloud tasks config requires project, location, and queue")
	}
	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("cloud tasks config requires a callback URL")
	}

	client, err := tasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	return &Enqueuer{
		client:    client,
		logger:    log.With(slog.String("component", "cloudtasks_enqueuer")),
		queuePath: fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.Location, cfg.Queue),
		cfg:       cfg,
	}, nil
}

// EnqueueJob schedules one HTTP task for the job and returns the task name.
// The task is delayed by the configured schedule delay so the creating
// transaction is visible before the executor fires.
func (e *Enqueuer) EnqueueJob(ctx context.Context, job *domain.Job) (string, error) {
	body, err := json.Marshal(callbackPayload{
		JobID: job.ID.String(),
		Type:  job.Type,
		Data:  job.Payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	httpReq := &taskspb.HttpRequest{
		HttpMethod: taskspb.HttpMethod_POST,
		Url:        e.cfg.CallbackURL,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
	if e.cfg.ServiceAccountEmail != "" {
		httpReq.AuthorizationHeader = &taskspb.HttpRequest_OidcToken{
			OidcToken: &taskspb.OidcToken{
				ServiceAccountEmail: e.cfg.ServiceAccountEmail,
			},
		}
	}

	req := &taskspb.CreateTaskRequest{
		Parent: e.queuePath,
		Task: &taskspb.Task{
			ScheduleTime: timestamppb.New(time.Now().Add(time.Duration(e.cfg.ScheduleDelaySeconds) * time.Second)),
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: httpReq,
			},
		},
	}

	task, err := e.client.CreateTask(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create cloud task: %w", err)
	}

	e.logger.Debug("created cloud task",
		slog.String("job_id", job.ID.String()),
		slog.String("task_name", task.GetName()))
	return task.GetName(), nil
}

// Close releases the underlying gRPC connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
