package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vidyamath/api/internal/client"
	"github.com/vidyamath/api/internal/config"
	"github.com/vidyamath/api/internal/model"
)

// LibraryService browses remote storage: NCERT textbooks per grade and
// previously generated video packages. It also provides textbook search,
// which is pure and works on already-downloaded content.
type LibraryService struct {
	driveClient *client.DriveClient
	driveCfg    *config.DriveConfig
}

// NewLibraryService creates a new library service with Drive client
func NewLibraryService(driveClient *client.DriveClient, driveCfg *config.DriveConfig) *LibraryService {
	return &LibraryService{
		driveClient: driveClient,
		driveCfg:    driveCfg,
	}
}

// ListBooks lists NCERT textbooks for a grade, ordered by name.
func (s *LibraryService) ListBooks(ctx context.Context, grade int) (*model.BookListResponse, error) {
	if s.driveClient == nil || !s.driveClient.IsConfigured() {
		return &model.BookListResponse{Grade: grade, Books: []model.DriveFile{}}, nil
	}

	folderID := s.driveCfg.NCERTFolders[fmt.Sprintf("%d", grade)]
	if folderID == "" {
		return nil, fmt.Errorf("no folder configured for grade %d", grade)
	}

	files, err := s.driveClient.ListByMimeType(ctx, folderID, "application/pdf", "name", 0)
	if err != nil {
		return nil, err
	}

	books := make([]model.DriveFile, 0, len(files))
	for _, f := range files {
		books = append(books, model.DriveFile{
			ID:           f.Id,
			Name:         f.Name,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
			WebViewLink:  f.WebViewLink,
		})
	}

	return &model.BookListResponse{Grade: grade, Books: books}, nil
}

// ListVideos lists recently generated video packages, newest first. Each
// package lives in its own timestamped folder holding one mp4.
func (s *LibraryService) ListVideos(ctx context.Context, limit int64) (*model.VideoListResponse, error) {
	if s.driveClient == nil || !s.driveClient.IsConfigured() {
		return &model.VideoListResponse{Videos: []model.VideoEntry{}}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	folders, err := s.driveClient.ListFolders(ctx, s.driveCfg.OutputFolderID, limit)
	if err != nil {
		return nil, err
	}

	videos := make([]model.VideoEntry, 0, len(folders))
	for _, folder := range folders {
		files, err := s.driveClient.ListByMimeType(ctx, folder.Id, "video/mp4", "", 0)
		if err != nil || len(files) == 0 {
			continue
		}
		v := files[0] // one video per package folder
		videos = append(videos, model.VideoEntry{
			FolderName:  folder.Name,
			VideoID:     v.Id,
			VideoName:   v.Name,
			CreatedTime: folder.ModifiedTime,
			Size:        v.Size,
			WebViewLink: v.WebViewLink,
		})
	}

	return &model.VideoListResponse{Videos: videos}, nil
}

// DownloadBook fetches a textbook's content with a 50MB ceiling.
func (s *LibraryService) DownloadBook(ctx context.Context, fileID string) ([]byte, error) {
	if s.driveClient == nil || !s.driveClient.IsConfigured() {
		return nil, fmt.Errorf("storage not configured")
	}
	return s.driveClient.Download(ctx, fileID, 50*1024*1024)
}

// SearchTextbook searches content line-by-line for the given terms and
// returns hits ordered by relevance.
func (s *LibraryService) SearchTextbook(content string, terms []string) *model.SearchResponse {
	lines := strings.Split(content, "\n")
	var hits []model.SearchHit

	for _, term := range terms {
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), strings.ToLower(term)) {
				continue
			}

			// context: 3 lines either side
			start := i - 3
			if start < 0 {
				start = 0
			}
			end := i + 4
			if end > len(lines) {
				end = len(lines)
			}

			hits = append(hits, model.SearchHit{
				Term:           term,
				LineNumber:     i + 1,
				Content:        strings.TrimSpace(line),
				Context:        strings.Join(lines[start:end], "\n"),
				RelevanceScore: relevanceScore(line, term),
			})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].RelevanceScore > hits[b].RelevanceScore
	})

	return &model.SearchResponse{Hits: hits}
}

var mathKeywords = []string{"formula", "theorem", "proof", "example", "solution", "answer"}

// relevanceScore ranks a matched line: exact match, prefix position,
// occurrence count and mathematical vocabulary all raise the score.
func relevanceScore(line, term string) float64 {
	lineLower := strings.ToLower(line)
	termLower := strings.ToLower(term)

	score := 0.0

	if termLower == strings.TrimSpace(lineLower) {
		score += 10.0
	}
	if strings.HasPrefix(lineLower, termLower) {
		score += 5.0
	}
	score += float64(strings.Count(lineLower, termLower)) * 2.0

	for _, kw := range mathKeywords {
		if strings.Contains(lineLower, kw) {
			score += 1.0
		}
	}

	return score
}
