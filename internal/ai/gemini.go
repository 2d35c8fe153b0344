package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tripplanner/internal/metrics"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements TextCompleter using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider initializes a new Gemini client. modelName may be empty.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Complete runs one plain-text generation on a fresh model handle.
func (p *GeminiProvider) Complete(ctx context.Context, prompt Prompt) (text string, err error) {
	defer metrics.ObserveCall("gemini_chat", time.Now(), &err)

	model := p.client.GenerativeModel(p.modelName)
	if prompt.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.System))
	}
	if prompt.Temperature > 0 {
		model.SetTemperature(prompt.Temperature)
	}
	if prompt.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(prompt.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	text = responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
