package client

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vidyamath/api/internal/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient wraps the Google Drive API for textbook browsing and video
// package uploads. All operations are keyed by parent-folder identifiers.
type DriveClient struct {
	service *drive.Service
}

// NewDriveClient creates a Drive client from service-account JSON credentials.
func NewDriveClient(ctx context.Context, cfg *config.DriveConfig) (*DriveClient, error) {
	if cfg.CredentialsJSON == "" {
		return nil, fmt.Errorf("drive configuration incomplete")
	}

	service, err := drive.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive service: %w", err)
	}

	return &DriveClient{service: service}, nil
}

// CreateFolder creates a folder under parentID and returns its id.
func (c *DriveClient) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	folder, err := c.service.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{parentID},
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", name, err)
	}
	return folder.Id, nil
}

// UploadFile streams one file into folderID and returns its remote identity.
func (c *DriveClient) UploadFile(ctx context.Context, folderID, name, mimeType string, body io.Reader) (*drive.File, error) {
	file, err := c.service.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(body, googleapi.ContentType(mimeType)).
		Fields("id", "name", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return file, nil
}

// ListByMimeType lists files under parentID with the given MIME type.
func (c *DriveClient) ListByMimeType(ctx context.Context, parentID, mimeType, orderBy string, pageSize int64) ([]*drive.File, error) {
	call := c.service.Files.List().
		Q(fmt.Sprintf("'%s' in parents and mimeType='%s'", parentID, mimeType)).
		Fields("files(id, name, modifiedTime, size, webViewLink)").
		Context(ctx)
	if orderBy != "" {
		call = call.OrderBy(orderBy)
	}
	if pageSize > 0 {
		call = call.PageSize(pageSize)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", parentID, err)
	}
	return result.Files, nil
}

// ListFolders lists subfolders of parentID, newest first.
func (c *DriveClient) ListFolders(ctx context.Context, parentID string, limit int64) ([]*drive.File, error) {
	result, err := c.service.Files.List().
		Q(fmt.Sprintf("'%s' in parents and mimeType='%s'", parentID, folderMimeType)).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(limit).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders under %s: %w", parentID, err)
	}
	return result.Files, nil
}

// Download fetches file content, refusing files larger than maxBytes.
func (c *DriveClient) Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	meta, err := c.service.Files.Get(fileID).Fields("size", "name").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", fileID, err)
	}
	if meta.Size > maxBytes {
		return nil, fmt.Errorf("file %s too large: %d bytes", meta.Name, meta.Size)
	}

	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *DriveClient) IsConfigured() bool {
	return c != nil && c.service != nil
}
