package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// EmailSender dispatches tenant invite emails through the email backend.
type EmailSender interface {
	SendInvite(ctx context.Context, email, subject, emailContent string) error
}

// EmailClient fires invite emails via the operator email backend.
type EmailClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewEmailClient creates a new email client. An empty baseURL disables
// sending (calls become logged no-ops).
func NewEmailClient(baseURL string, logger *zap.Logger) *EmailClient {
	return &EmailClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		logger:     logger.Named("email"),
	}
}

// inviteRequest is the email backend's wire format.
type inviteRequest struct {
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	EmailContent string `json:"emailContent"`
}

// SendInvite fires POST {base}/api/send-email with the invite payload.
func (c *EmailClient) SendInvite(ctx context.Context, email, subject, emailContent string) error {
	if c.baseURL == "" {
		c.logger.Debug("Email backend not configured, skipping invite",
			zap.String("email", email))
		return nil
	}

	endpoint, err := buildURL(c.baseURL, "api", "send-email")
	if err != nil {
		return fmt.Errorf("failed to build email URL: %w", err)
	}

	payload, err := json.Marshal(inviteRequest{
		Email:        email,
		Subject:      subject,
		EmailContent: emailContent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal invite: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Sending inspection invite", zap.String("email", email))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email backend returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Ensure EmailClient implements EmailSender at compile time.
var _ EmailSender = (*EmailClient)(nil)
