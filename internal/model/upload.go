package model

// UploadedFile describes one file pushed to remote storage
type UploadedFile struct {
	Type        string `json:"type"` // "video", "script" or "metadata"
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink,omitempty"`
}

// UploadResult maps the remote locations of an uploaded video package
type UploadResult struct {
	FolderID   string         `json:"folderId"`
	FolderName string         `json:"folderName"`
	Files      []UploadedFile `json:"files"`
}

// VideoMetadata is the companion metadata document uploaded next to a video
type VideoMetadata struct {
	Problem    Problem            `json:"problem"`
	EntryPoint string             `json:"entryPoint"`
	Quality    RenderQuality      `json:"quality"`
	Durations  map[string]float64 `json:"audioDurations"`
	Generator  string             `json:"generator"`
	CreatedAt  string             `json:"createdAt"`
}
