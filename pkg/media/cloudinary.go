// Package media provides the object upload client for the hosted image
// host (Cloudinary unsigned upload).
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
)

// DefaultTimeout is the maximum time to wait for a single upload.
const DefaultTimeout = 60 * time.Second

// File is one image submitted for upload, read fully from the request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsImage reports whether the file content is an image. The declared
// content type wins when present; otherwise the content is sniffed.
func (f *File) IsImage() bool {
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(f.Data)
	}
	return strings.HasPrefix(contentType, "image/")
}

// Uploader defines the interface for uploading images to the image host.
type Uploader interface {
	// Upload sends one file and returns its public URL.
	Upload(ctx context.Context, file *File) (string, error)
	// UploadAll uploads a batch concurrently, fail-fast on the first
	// failure, with resulting URLs in input order.
	UploadAll(ctx context.Context, files []*File) ([]string, error)
}

// Config holds configuration for creating an upload client.
type Config struct {
	CloudName    string // Cloudinary cloud name
	UploadPreset string // Unsigned upload preset
	BaseURL      string // Override for tests; defaults to the Cloudinary API
}

// Client uploads files to Cloudinary via its unsigned upload endpoint.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	preset     string
	logger     *zap.Logger
}

// NewClient creates a new upload client.
// Returns an error before any I/O if the cloud name or preset is missing.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1"
	}

	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		uploadURL:  strings.TrimSuffix(baseURL, "/") + "/" + cfg.CloudName + "/upload",
		preset:     cfg.UploadPreset,
		logger:     logger.Named("media"),
	}, nil
}

// uploadResponse is the subset of the Cloudinary response we read.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one file as a multipart form with the fixed preset.
// Success is defined as a response containing a secure URL; any other
// shape is an upload failure.
func (c *Client) Upload(ctx context.Context, file *File) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", apperrors.ErrUploadFailed, err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: unexpected response shape", apperrors.ErrUploadFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.SecureURL == "" {
		message := "upload rejected"
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		c.logger.Error("Image upload failed",
			zap.Int("status", resp.StatusCode),
			zap.String("file", file.Name),
			zap.String("message", message))
		return "", fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, message)
	}

	c.logger.Debug("Image uploaded",
		zap.String("file", file.Name),
		zap.Duration("elapsed", time.Since(start)))

	return parsed.SecureURL, nil
}

// UploadAll uploads the batch concurrently. Order of resulting URLs
// matches input order; failure of any single upload aborts the batch.
func (c *Client) UploadAll(ctx context.Context, files []*File) ([]string, error) {
	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			url, err := c.Upload(ctx, file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

// Ensure Client implements Uploader at compile time.
var _ Uploader = (*Client)(nil)
