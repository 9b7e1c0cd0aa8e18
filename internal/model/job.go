package model

import "time"

// Job represents a background job in the system
type Job struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error,omitempty"`
	Payload     []byte     `json:"-"` // Stored as JSON
	Result      []byte     `json:"-"` // Stored as JSON
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Job types
const (
	JobTypeGenerate = "generate"
)

// GenerateJobPayload contains the data for a video generation job
type GenerateJobPayload struct {
	Problem Problem       `json:"problem"`
	Quality RenderQuality `json:"quality"`
	Upload  bool          `json:"upload"`
}
