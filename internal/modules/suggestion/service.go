// README: Destination suggestions from the chat model, cleaned into a list of city names.
package suggestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripplanner/internal/ai"
	"tripplanner/internal/logger"
	"tripplanner/internal/modules/preference"
)

var ErrSuggestionUnavailable = errors.New("suggestion unavailable")

const (
	systemPrompt = "You are a knowledgeable travel assistant."
	userPrompt   = "Suggest %d possible places in the world for a %s trip in %s. " +
		"GIVE JUST NAMES, ONE PLACE IN EACH LINE (DO NOT NUMBER THE OPTIONS!!!)"

	temperature = 0.7
	maxTokens   = 1024
)

type Service struct {
	llm     ai.TextCompleter
	count   int
	timeout time.Duration
	log     logger.Logger
}

func NewService(llm ai.TextCompleter, count int, timeout time.Duration, log logger.Logger) *Service {
	if count <= 0 {
		count = 5
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{llm: llm, count: count, timeout: timeout, log: log}
}

// Suggest asks for candidate destinations. The list length is whatever the model returned.
func (s *Service) Suggest(ctx context.Context, prefs preference.TripPreferences) ([]string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.llm.Complete(ctx, ai.Prompt{
		System:      systemPrompt,
		User:        BuildPrompt(s.count, prefs.TripType, prefs.Month()),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		s.log.Error("destination suggestion failed", map[string]interface{}{
			"capability": "suggestion", "trip_type": prefs.TripType, "error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrSuggestionUnavailable, err)
	}

	destinations := Normalize(text)
	if len(destinations) == 0 {
		s.log.Warn("assistant returned no usable destinations", map[string]interface{}{"raw": text})
		return nil, fmt.Errorf("%w: no destinations in response", ErrSuggestionUnavailable)
	}
	s.log.Info("destinations suggested", map[string]interface{}{
		"trip_type": prefs.TripType, "month": prefs.Month(), "destinations": destinations,
	})
	return destinations, nil
}

func BuildPrompt(count int, tripType, month string) string {
	return fmt.Sprintf(userPrompt, count, tripType, month)
}
