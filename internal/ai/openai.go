package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tripplanner/internal/config"
	"tripplanner/internal/metrics"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient talks to the chat completions and image generation endpoints.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	chatModel  string
	imageModel string
	imageSize  string
	httpClient *http.Client
}

func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		imageSize:  cfg.ImageSize,
		// Image generation is slow; callers bound each call through ctx.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Complete sends the prompt to /chat/completions and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (text string, err error) {
	defer metrics.ObserveCall("openai_chat", time.Now(), &err)

	messages := make([]chatMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.User})

	var cr chatResponse
	if err := c.post(ctx, "/chat/completions", chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}, &cr); err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openai chat: api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai chat: %w", ErrEmptyResponse)
	}
	return cr.Choices[0].Message.Content, nil
}

// GenerateImage requests a single image and returns its URL.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (url string, err error) {
	defer metrics.ObserveCall("openai_image", time.Now(), &err)

	var ir imageResponse
	if err := c.post(ctx, "/images/generations", imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   c.imageSize,
	}, &ir); err != nil {
		return "", fmt.Errorf("openai image: %w", err)
	}
	if ir.Error != nil {
		return "", fmt.Errorf("openai image: api error: %s", ir.Error.Message)
	}
	if len(ir.Data) == 0 || ir.Data[0].URL == "" {
		return "", fmt.Errorf("openai image: %w", ErrEmptyResponse)
	}
	return ir.Data[0].URL, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, in, out any) error {
	reqBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	// Error bodies decode into out.Error; anything else non-2xx is reported here.
	if resp.StatusCode >= http.StatusBadRequest && !hasAPIError(out) {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func hasAPIError(out any) bool {
	switch v := out.(type) {
	case *chatResponse:
		return v.Error != nil
	case *imageResponse:
		return v.Error != nil
	}
	return false
}
