// Package notify provides thin clients for the operator-controlled report
// and email backends. Both are external collaborators: the engine fires
// requests and logs failures without retrying.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout is the maximum time to wait for backend responses.
const DefaultTimeout = 30 * time.Second

// ReportTrigger starts report generation for a submitted inspection.
type ReportTrigger interface {
	StartReport(ctx context.Context, inspectionID uuid.UUID) error
}

// ReportClient fires the report-generation trigger.
type ReportClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewReportClient creates a new report trigger client. An empty baseURL
// disables the trigger (calls become logged no-ops).
func NewReportClient(baseURL string, logger *zap.Logger) *ReportClient {
	return &ReportClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		logger:     logger.Named("report"),
	}
}

// StartReport fires GET {base}/api/start-report/{inspectionId}.
// The response body is not interpreted; a non-2xx status is an error so
// the caller can log it, but nothing is retried.
func (c *ReportClient) StartReport(ctx context.Context, inspectionID uuid.UUID) error {
	if c.baseURL == "" {
		c.logger.Debug("Report backend not configured, skipping trigger",
			zap.String("inspection_id", inspectionID.String()))
		return nil
	}

	endpoint, err := buildURL(c.baseURL, "api", "start-report", inspectionID.String())
	if err != nil {
		return fmt.Errorf("failed to build report URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	c.logger.Info("Triggering report generation",
		zap.String("inspection_id", inspectionID.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call report backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("report backend returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// buildURL constructs a URL by parsing the base and joining path segments.
func buildURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)

	return u.String(), nil
}

// Ensure ReportClient implements ReportTrigger at compile time.
var _ ReportTrigger = (*ReportClient)(nil)
