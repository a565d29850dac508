// Package vision provides the client for the hosted vision-language
// comparison endpoint (OpenAI-compatible chat completions).
package vision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/prompts"
)

// Comparer defines the operations asked of the vision model.
type Comparer interface {
	// CompareRooms describes the differences between a "before" image set
	// and an "after" image set. The returned text is the model's reply
	// verbatim; nothing downstream parses it.
	CompareRooms(ctx context.Context, before, after []string) (string, error)
	// ItemInventory produces an itemized free-text inventory of a room
	// from its reference images.
	ItemInventory(ctx context.Context, imageURLs []string) (string, error)
}

// Config holds configuration for creating a vision client.
type Config struct {
	BaseURL   string // OpenAI-compatible API base, e.g. "https://api.openai.com/v1"
	Model     string // Multimodal model name, e.g. "gpt-4o"
	MaxTokens int    // Response length bound
	APIKey    string // Bearer token
}

// Client calls an OpenAI-compatible multimodal chat completion endpoint.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewClient creates a new vision client.
// Returns an error before any I/O if the API key is missing.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision API key is missing")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.Named("vision"),
	}, nil
}

// CompareRooms sends one user message carrying the comparison prompt, all
// "before" image URLs, the AFTER IMAGES label, and all "after" image URLs.
// Both sets keep their original relative order; all of the before set
// precedes all of the after set.
func (c *Client) CompareRooms(ctx context.Context, before, after []string) (string, error) {
	parts := make([]openai.ChatMessagePart, 0, len(before)+len(after)+2)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompts.RoomComparison,
	})
	parts = append(parts, imageParts(before)...)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompts.AfterImagesLabel,
	})
	parts = append(parts, imageParts(after)...)

	return c.complete(ctx, parts, len(before)+len(after))
}

// ItemInventory sends the inventory prompt plus a single image set.
func (c *Client) ItemInventory(ctx context.Context, imageURLs []string) (string, error) {
	parts := make([]openai.ChatMessagePart, 0, len(imageURLs)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompts.ItemInventory,
	})
	parts = append(parts, imageParts(imageURLs)...)

	return c.complete(ctx, parts, len(imageURLs))
}

// complete issues the chat completion request and returns the reply text.
func (c *Client) complete(ctx context.Context, parts []openai.ChatMessagePart, imageCount int) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		c.logger.Error("Vision request failed",
			zap.Int("images", imageCount),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrEmptyResult
	}

	c.logger.Info("Vision request completed",
		zap.Int("images", imageCount),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// imageParts converts URLs to high-detail image message parts, preserving
// order.
func imageParts(urls []string) []openai.ChatMessagePart {
	parts := make([]openai.ChatMessagePart, 0, len(urls))
	for _, url := range urls {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    url,
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}
	return parts
}

// Ensure Client implements Comparer at compile time.
var _ Comparer = (*Client)(nil)
