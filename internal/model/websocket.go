package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage is a bare typed message (keep-alive traffic)
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage is pushed while a job is running
type WSProgressMessage struct {
	Type        string    `json:"type"`
	JobID       string    `json:"jobId"`
	Progress    int       `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage is pushed once with the final result
type WSCompleteMessage struct {
	Type   string      `json:"type"`
	JobID  string      `json:"jobId"`
	Result interface{} `json:"result"`
}

// WSErrorMessage is pushed when a job fails
type WSErrorMessage struct {
	Type    string `json:"type"`
	JobID   string `json:"jobId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
