package model

// DriveFile describes a single file in remote storage
type DriveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}

// BookListResponse lists NCERT textbooks for a grade
type BookListResponse struct {
	Grade int         `json:"grade"`
	Books []DriveFile `json:"books"`
}

// VideoEntry describes one generated video package in remote storage
type VideoEntry struct {
	FolderName  string `json:"folderName"`
	VideoID     string `json:"videoId"`
	VideoName   string `json:"videoName"`
	CreatedTime string `json:"createdTime"`
	Size        int64  `json:"size"`
	WebViewLink string `json:"webViewLink,omitempty"`
}

// VideoListResponse lists recently generated videos
type VideoListResponse struct {
	Videos []VideoEntry `json:"videos"`
}

// SearchRequest searches textbook content for terms
type SearchRequest struct {
	Content string   `json:"content" validate:"required,min=1"`
	Terms   []string `json:"terms" validate:"required,min=1,max=10,dive,min=1"`
}

// SearchHit is one matched line with surrounding context
type SearchHit struct {
	Term           string  `json:"term"`
	LineNumber     int     `json:"lineNumber"`
	Content        string  `json:"content"`
	Context        string  `json:"context"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// SearchResponse carries search hits ordered by relevance
type SearchResponse struct {
	Hits []SearchHit `json:"hits"`
}
