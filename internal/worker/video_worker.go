package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vidyamath/api/internal/client"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/narration"
	"github.com/vidyamath/api/internal/renderer"
	"github.com/vidyamath/api/internal/script"
	"github.com/vidyamath/api/internal/service"
	"github.com/vidyamath/api/internal/websocket"
)

// VideoWorker runs the generation pipeline for one job: narrate, synthesize
// audio, compose the scene program, render it, optionally upload the result.
// Every stage is sequential and request-scoped; the only shared state is the
// job record in redis.
type VideoWorker struct {
	videoService  *service.VideoService
	uploadService *service.UploadService
	sarvamClient  *client.SarvamClient
	invoker       *renderer.Invoker
	renderBudget  time.Duration
	hub           *websocket.Hub
}

// NewVideoWorker creates a new video generation worker
func NewVideoWorker(
	videoService *service.VideoService,
	uploadService *service.UploadService,
	sarvamClient *client.SarvamClient,
	invoker *renderer.Invoker,
	renderBudget time.Duration,
	hub *websocket.Hub,
) *VideoWorker {
	return &VideoWorker{
		videoService:  videoService,
		uploadService: uploadService,
		sarvamClient:  sarvamClient,
		invoker:       invoker,
		renderBudget:  renderBudget,
		hub:           hub,
	}
}

// ProcessTask handles generation task processing
func (w *VideoWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload service.GenerateTaskPayload
	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting generation job: %s", jobID)

	var payload model.GenerateJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, jobID, "Invalid payload")
		return fmt.Errorf("failed to unmarshal generate payload: %w", err)
	}

	if w.videoService.IsCanceled(ctx, jobID) {
		log.Printf("Generation job %s canceled before start", jobID)
		return nil
	}

	problem := &payload.Problem
	now := time.Now()

	// Step 1: narration content
	w.updateProgress(ctx, jobID, 10, "Building narration...")
	narr := narration.Build(problem, now)

	// Step 2: speech synthesis, one item at a time. A failed item falls back
	// to an estimated duration; it never aborts the pipeline.
	w.updateProgress(ctx, jobID, 20, "Synthesizing narration audio...")
	audio, durations, fallback := w.synthesizeAudio(ctx, narr)

	// Step 3: compose the scene program. Composition failures abort before
	// any subprocess is spawned.
	w.updateProgress(ctx, jobID, 45, "Composing animation script...")
	entryPoint := script.EntryPointName(problem.Topic, now)
	prog, err := script.Compose(problem, narr, entryPoint)
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Composition failed: %v", err))
		return err
	}
	programText, err := prog.Render()
	if err != nil {
		w.failJob(ctx, jobID, fmt.Sprintf("Composition failed: %v", err))
		return err
	}

	// Step 4: render. One subprocess, one blocking wait, no retries.
	w.updateProgress(ctx, jobID, 55, "Rendering video... This may take a few minutes.")
	artifact, err := w.invoker.Render(ctx, programText, entryPoint, payload.Quality, w.renderBudget, audio)
	if err != nil {
		w.failJob(ctx, jobID, renderFailureMessage(err))
		return err
	}

	result := &model.GenerateResultResponse{
		ID:            uuid.New().String(),
		VideoPath:     artifact.VideoPath,
		ScriptPath:    artifact.ScriptPath,
		EntryPoint:    entryPoint,
		TopicFamily:   problem.Family(),
		Narrations:    narr.Len(),
		AudioFallback: fallback,
		Durations:     durations,
		CreatedAt:     time.Now(),
	}

	// Step 5: optional upload. Failure degrades to a warning; a successful
	// render is never rolled back.
	if payload.Upload {
		w.updateProgress(ctx, jobID, 90, "Uploading video package...")
		upload, err := w.uploadPackage(ctx, artifact, entryPoint, problem, payload.Quality, durations)
		if err != nil {
			log.Printf("Upload failed for job %s: %v", jobID, err)
			result.UploadError = err.Error()
		} else {
			result.Upload = upload
		}
	}

	if err := w.videoService.CompleteJob(ctx, jobID, result); err != nil {
		w.failJob(ctx, jobID, "Failed to save result")
		return err
	}

	w.hub.BroadcastComplete(jobID, result)
	log.Printf("Generation job %s completed", jobID)
	return nil
}

// synthesizeAudio creates one wav per narration entry. Returns the audio
// buffers, the per-key durations, and the keys that fell back to estimates.
func (w *VideoWorker) synthesizeAudio(ctx context.Context, narr *narration.Set) (map[string][]byte, map[string]float64, []string) {
	durations := make(map[string]float64, narr.Len())
	var fallback []string

	if w.sarvamClient == nil || !w.sarvamClient.IsConfigured() {
		for key, text := range narr.Texts {
			durations[key] = narration.EstimateDuration(text)
		}
		return nil, durations, nil
	}

	audio := make(map[string][]byte, narr.Len())
	for _, key := range narr.Keys() {
		text := narr.Texts[key]
		wav, err := w.sarvamClient.TextToSpeech(ctx, text)
		if err != nil {
			log.Printf("Error creating audio %s: %v", key, err)
			durations[key] = narration.FallbackDuration
			fallback = append(fallback, key)
			continue
		}
		audio[key] = wav
		durations[key] = narration.EstimateDuration(text)
	}

	return audio, durations, fallback
}

func (w *VideoWorker) uploadPackage(ctx context.Context, artifact *renderer.Artifact, entryPoint string, problem *model.Problem, quality model.RenderQuality, durations map[string]float64) (*model.UploadResult, error) {
	if w.uploadService == nil || !w.uploadService.IsConfigured() {
		return nil, fmt.Errorf("storage not configured")
	}

	metadata := &model.VideoMetadata{
		Problem:    *problem,
		EntryPoint: entryPoint,
		Quality:    quality,
		Durations:  durations,
		Generator:  "vidyamath 1.0.0",
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	return w.uploadService.UploadVideoPackage(ctx, artifact.VideoPath, artifact.ScriptPath, entryPoint, metadata)
}

// renderFailureMessage flattens a render error into a job error message,
// keeping captured renderer output for diagnosis.
func renderFailureMessage(err error) string {
	f, ok := renderer.AsFailure(err)
	if !ok {
		return fmt.Sprintf("Render failed: %v", err)
	}

	msg := fmt.Sprintf("Render failed (%s)", f.Reason)
	if tail := outputTail(f.Stderr, 2000); tail != "" {
		msg += "\nSTDERR: " + tail
	}
	if tail := outputTail(f.Stdout, 1000); tail != "" {
		msg += "\nSTDOUT: " + tail
	}
	return msg
}

func outputTail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

func (w *VideoWorker) updateProgress(ctx context.Context, jobID string, progress int, step string) {
	if err := w.videoService.UpdateJobProgress(ctx, jobID, progress, step); err != nil {
		log.Printf("Failed to update progress: %v", err)
	}
	w.hub.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)
}

func (w *VideoWorker) failJob(ctx context.Context, jobID, errMsg string) {
	if err := w.videoService.FailJob(ctx, jobID, errMsg); err != nil {
		log.Printf("Failed to mark job as failed: %v", err)
	}
	w.hub.BroadcastError(jobID, "GENERATION_FAILED", errMsg)
}
