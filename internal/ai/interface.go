package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers without any usable content.
var ErrEmptyResponse = errors.New("ai: empty response")

// TextCompleter is the chat-completion capability used for destination suggestions and itineraries.
// Implementations exist for OpenAI and Gemini; callers only see this contract.
type TextCompleter interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageGenerator turns a text description into a hosted image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
