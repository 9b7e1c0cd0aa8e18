package model

import "time"

// GenerateStartRequest represents the request to start a video generation job
type GenerateStartRequest struct {
	Problem RawProblem    `json:"problem" validate:"required"`
	Quality RenderQuality `json:"quality" validate:"omitempty,oneof=low medium high"`
	Upload  bool          `json:"upload"`
}

// GenerateStartResponse represents the response when starting a generation
type GenerateStartResponse struct {
	JobID             string    `json:"jobId"`
	Status            JobStatus `json:"status"`
	EstimatedDuration int       `json:"estimatedDuration"` // seconds of finished video
	CreatedAt         time.Time `json:"createdAt"`
}

// GenerateStatusResponse represents the status of a generation job
type GenerateStatusResponse struct {
	JobID       string     `json:"jobId"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// GenerateResultResponse represents the result of a completed generation
type GenerateResultResponse struct {
	ID            string             `json:"id"`
	VideoPath     string             `json:"videoPath"`
	ScriptPath    string             `json:"scriptPath"`
	EntryPoint    string             `json:"entryPoint"`
	TopicFamily   TopicFamily        `json:"topicFamily"`
	Narrations    int                `json:"narrations"`
	AudioFallback []string           `json:"audioFallback,omitempty"` // narration keys synthesized with estimated durations only
	Durations     map[string]float64 `json:"durations"`
	Upload        *UploadResult      `json:"upload,omitempty"`
	UploadError   string             `json:"uploadError,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// GenerateCancelResponse represents the response when canceling a generation
type GenerateCancelResponse struct {
	Success bool      `json:"success"`
	JobID   string    `json:"jobId"`
	Status  JobStatus `json:"status"`
}

// ComposeDraftRequest asks for a standalone animation script draft without
// rendering it.
type ComposeDraftRequest struct {
	Problem RawProblem `json:"problem" validate:"required"`
}

// ComposeDraftResponse carries the drafted script
type ComposeDraftResponse struct {
	EntryPoint  string      `json:"entryPoint"`
	TopicFamily TopicFamily `json:"topicFamily"`
	Script      string      `json:"script"`
	Source      string      `json:"source"` // "llm" or "composer"
}
