package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/vidyamath/api/internal/client"
	"github.com/vidyamath/api/internal/config"
	"github.com/vidyamath/api/internal/model"
)

// UploadService pushes finished video packages to remote storage. It sits
// after the render step and never affects generation correctness: a failed
// upload is reported but the rendered artifact stays valid.
type UploadService struct {
	driveClient *client.DriveClient
	driveCfg    *config.DriveConfig
}

// NewUploadService creates a new upload service with Drive client
func NewUploadService(driveClient *client.DriveClient, driveCfg *config.DriveConfig) *UploadService {
	return &UploadService{
		driveClient: driveClient,
		driveCfg:    driveCfg,
	}
}

// IsConfigured reports whether uploads can actually reach remote storage.
func (s *UploadService) IsConfigured() bool {
	return s.driveClient != nil && s.driveClient.IsConfigured() && s.driveCfg.OutputFolderID != ""
}

// UploadVideoPackage uploads a video, its companion script and a metadata
// document into a fresh timestamped folder under the configured output
// folder.
func (s *UploadService) UploadVideoPackage(ctx context.Context, videoPath, scriptPath, problemName string, metadata *model.VideoMetadata) (*model.UploadResult, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("storage not configured")
	}

	folderName := fmt.Sprintf("%s_%s", problemName, time.Now().Format("20060102_150405"))
	folderID, err := s.driveClient.CreateFolder(ctx, s.driveCfg.OutputFolderID, folderName)
	if err != nil {
		return nil, err
	}

	result := &model.UploadResult{FolderID: folderID, FolderName: folderName}

	if videoPath != "" {
		file, err := s.uploadLocalFile(ctx, folderID, videoPath, problemName+"_video.mp4", "video/mp4")
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, model.UploadedFile{
			Type: "video", ID: file.Id, Name: file.Name, WebViewLink: file.WebViewLink,
		})
	}

	if scriptPath != "" {
		file, err := s.uploadLocalFile(ctx, folderID, scriptPath, problemName+"_script.py", "text/plain")
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, model.UploadedFile{
			Type: "script", ID: file.Id, Name: file.Name, WebViewLink: file.WebViewLink,
		})
	}

	if metadata != nil {
		data, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		file, err := s.driveClient.UploadFile(ctx, folderID, problemName+"_metadata.json", "application/json", bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, model.UploadedFile{
			Type: "metadata", ID: file.Id, Name: file.Name, WebViewLink: file.WebViewLink,
		})
	}

	return result, nil
}

func (s *UploadService) uploadLocalFile(ctx context.Context, folderID, path, name, mimeType string) (*drive.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.driveClient.UploadFile(ctx, folderID, name, mimeType, f)
}
