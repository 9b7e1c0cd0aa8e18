package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vidyamath/api/internal/model"
)

const (
	TaskTypeGenerate = "generate:process"
)

// VideoService handles video generation job management
type VideoService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
	bounds      model.GradeBounds
}

func NewVideoService(redisClient *redis.Client, asynqClient *asynq.Client, bounds model.GradeBounds) *VideoService {
	return &VideoService{
		redis:       redisClient,
		asynqClient: asynqClient,
		bounds:      bounds,
	}
}

// GradeBounds returns the configured grade range used for validation.
func (s *VideoService) GradeBounds() model.GradeBounds {
	return s.bounds
}

// StartGenerate validates the problem and queues a new generation job.
func (s *VideoService) StartGenerate(ctx context.Context, req *model.GenerateStartRequest) (*model.GenerateStartResponse, error) {
	problem, err := req.Problem.Validate(s.bounds)
	if err != nil {
		return nil, err
	}

	quality := req.Quality
	if quality == "" {
		quality = model.QualityHigh
	}

	jobID := uuid.New().String()
	now := time.Now()

	job := &model.Job{
		ID:        jobID,
		Type:      model.JobTypeGenerate,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: now,
	}

	payload := &model.GenerateJobPayload{
		Problem: *problem,
		Quality: quality,
		Upload:  req.Upload,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	job.Payload = payloadBytes

	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newGenerateTask(jobID, payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Rendering is expensive: no automatic retries, re-submission is the
	// user's decision.
	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("render"),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.GenerateStartResponse{
		JobID:             jobID,
		Status:            model.JobStatusQueued,
		EstimatedDuration: int(EstimateVideoDuration(problem)),
		CreatedAt:         now,
	}, nil
}

// GetStatus returns the current status of a generation job
func (s *VideoService) GetStatus(ctx context.Context, jobID string) (*model.GenerateStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.GenerateStatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}

// GetResult returns the result of a completed generation job
func (s *VideoService) GetResult(ctx context.Context, jobID string) (*model.GenerateResultResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != model.JobStatusSucceeded {
		return nil, fmt.Errorf("job not completed")
	}

	var result model.GenerateResultResponse
	if err := json.Unmarshal(job.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Cancel cancels a queued or running generation job
func (s *VideoService) Cancel(ctx context.Context, jobID string) (*model.GenerateCancelResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == model.JobStatusSucceeded || job.Status == model.JobStatusFailed {
		return nil, fmt.Errorf("job already completed")
	}

	job.Status = model.JobStatusCanceled
	now := time.Now()
	job.CompletedAt = &now

	if err := s.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return &model.GenerateCancelResponse{
		Success: true,
		JobID:   jobID,
		Status:  model.JobStatusCanceled,
	}, nil
}

// UpdateJobProgress updates job progress (called by worker)
func (s *VideoService) UpdateJobProgress(ctx context.Context, jobID string, progress int, step string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = progress
	job.CurrentStep = step

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
	}

	return s.saveJob(ctx, job)
}

// IsCanceled reports whether the job was canceled by the user.
func (s *VideoService) IsCanceled(ctx context.Context, jobID string) bool {
	job, err := s.getJob(ctx, jobID)
	return err == nil && job.Status == model.JobStatusCanceled
}

// CompleteJob marks job as completed (called by worker)
func (s *VideoService) CompleteJob(ctx context.Context, jobID string, result interface{}) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.Result = resultBytes
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// FailJob marks job as failed (called by worker)
func (s *VideoService) FailJob(ctx context.Context, jobID string, errMsg string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// EstimateVideoDuration estimates the finished video length in seconds.
func EstimateVideoDuration(p *model.Problem) float64 {
	duration := 30.0 // intro, transitions, conclusion

	statementWords := len(strings.Fields(p.Statement))
	if d := float64(statementWords) * 0.3; d > 5 {
		duration += d
	} else {
		duration += 5
	}

	for _, step := range p.SolutionSteps {
		words := len(strings.Fields(step))
		if d := float64(words) * 0.4; d > 3 {
			duration += d
		} else {
			duration += 3
		}
	}

	// visualization buffer per step
	duration += float64(len(p.SolutionSteps)) * 2

	return duration
}

// Helper methods

func (s *VideoService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf("job:%s", job.ID), data, 24*time.Hour).Err()
}

func (s *VideoService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, fmt.Sprintf("job:%s", jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("job not found")
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

// GenerateTaskPayload is the asynq task envelope. Payload is a RawMessage so
// the already-marshaled GenerateJobPayload is embedded verbatim instead of
// being re-encoded as a base64 string.
type GenerateTaskPayload struct {
	JobID   string          `json:"jobId"`
	Payload json.RawMessage `json:"payload"`
}

func newGenerateTask(jobID string, payload []byte) (*asynq.Task, error) {
	data, err := json.Marshal(GenerateTaskPayload{JobID: jobID, Payload: payload})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGenerate, data), nil
}
