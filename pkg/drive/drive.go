// Package drive implements the library.Uploader interface on Google Drive:
// PDFs land in one shared folder and are readable by anyone with the link.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client uploads PDFs into a named Drive folder using a service account.
type Client struct {
	svc    *drivev3.Service
	folder string
	logger *slog.Logger

	mu       sync.Mutex
	folderID string
}

// New builds a Client from service-account credentials JSON.
func New(ctx context.Context, credentialsJSON []byte, folder string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc, err := drivev3.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drivev3.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc, folder: folder, logger: logger}, nil
}

// Upload stores the PDF under name in the configured folder, makes it
// readable by anyone, and returns the direct-download URL as the locator.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	folderID, err := c.ensureFolder(ctx)
	if err != nil {
		return "", err
	}

	f, err := c.svc.Files.Create(&drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(r, googleapi.ContentType("application/pdf")).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	_, err = c.svc.Permissions.Create(f.Id, &drivev3.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("share %s: %w", name, err)
	}

	c.logger.Info("pdf uploaded", "name", name, "file_id", f.Id)
	return fmt.Sprintf("https://drive.google.com/uc?id=%s&export=download", f.Id), nil
}

// ensureFolder finds or creates the upload folder, caching its ID.
func (c *Client) ensureFolder(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.folderID != "" {
		return c.folderID, nil
	}

	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false", folderMimeType, c.folder)
	list, err := c.svc.Files.List().Q(query).Spaces("drive").Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find folder %s: %w", c.folder, err)
	}
	if len(list.Files) > 0 {
		c.folderID = list.Files[0].Id
		return c.folderID, nil
	}

	created, err := c.svc.Files.Create(&drivev3.File{
		Name:     c.folder,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", c.folder, err)
	}
	c.logger.Info("drive folder created", "name", c.folder, "folder_id", created.Id)
	c.folderID = created.Id
	return c.folderID, nil
}
