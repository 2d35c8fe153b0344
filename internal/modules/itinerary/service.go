// README: Day-by-day itinerary and four illustrations for one selected travel option.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripplanner/internal/ai"
	"tripplanner/internal/logger"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
)

var (
	ErrSelectionOutOfRange     = errors.New("selection out of range")
	ErrItineraryUnavailable    = errors.New("itinerary unavailable")
	ErrIllustrationUnavailable = errors.New("illustration unavailable")
)

// ImageCount is the fixed size of an illustration set.
const ImageCount = 4

const (
	itinerarySystem = "You are a helpful travel assistant."
	itineraryPrompt = "Create a daily itinerary for a %s trip to %s from %s to %s (%d days). " +
		"For each day list the main activities, places to visit and local food to try."

	scenicChars     = 200
	activitiesChars = 500
)

// Plan is the generated content for one option.
type Plan struct {
	Itinerary string   `json:"itinerary"`
	Images    []string `json:"images"`
}

type Service struct {
	llm     ai.TextCompleter
	images  ai.ImageGenerator
	timeout time.Duration
	log     logger.Logger
}

func NewService(llm ai.TextCompleter, images ai.ImageGenerator, timeout time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{llm: llm, images: images, timeout: timeout, log: log}
}

// Generate writes the itinerary for options[index] and then requests the four images in order.
// An out-of-range index fails before any capability is called.
func (s *Service) Generate(ctx context.Context, prefs preference.TripPreferences, options []planning.TravelOption, index int) (Plan, error) {
	if index < 0 || index >= len(options) {
		return Plan{}, fmt.Errorf("%w: index %d, %d options", ErrSelectionOutOfRange, index, len(options))
	}
	opt := options[index]
	log := s.log.With(map[string]interface{}{"destination": opt.Destination})

	text, err := s.itinerary(ctx, prefs, opt.Destination)
	if err != nil {
		log.Error("itinerary generation failed", map[string]interface{}{"capability": "itinerary", "error": err.Error()})
		return Plan{}, fmt.Errorf("%w: %v", ErrItineraryUnavailable, err)
	}

	prompts := ImagePrompts(opt.Destination, prefs.TripType, text)
	images := make([]string, 0, len(prompts))
	for i, p := range prompts {
		url, err := s.image(ctx, p)
		if err != nil {
			log.Error("illustration failed", map[string]interface{}{"capability": "illustration", "image": i + 1, "error": err.Error()})
			return Plan{}, fmt.Errorf("%w: image %d: %v", ErrIllustrationUnavailable, i+1, err)
		}
		images = append(images, url)
	}

	log.Info("itinerary generated", map[string]interface{}{"chars": len(text), "images": len(images)})
	return Plan{Itinerary: text, Images: images}, nil
}

func (s *Service) itinerary(ctx context.Context, prefs preference.TripPreferences, destination string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.llm.Complete(ctx, ai.Prompt{
		System: itinerarySystem,
		User: fmt.Sprintf(itineraryPrompt, prefs.TripType, destination,
			prefs.StartDate.Format(preference.DateLayout), prefs.EndDate.Format(preference.DateLayout), prefs.Duration()),
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}

func (s *Service) image(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	url, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(url) == "" {
		return "", ai.ErrEmptyResponse
	}
	return url, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ImagePrompts returns the four illustration prompts in request order:
// scenic view, activities, best spot, essence of the trip.
func ImagePrompts(destination, tripType, itinerary string) [ImageCount]string {
	return [ImageCount]string{
		fmt.Sprintf("A scenic view of %s for a %s trip. Trip plan: %s", destination, tripType, firstRunes(itinerary, scenicChars)),
		fmt.Sprintf("Travelers enjoying activities in %s: %s", destination, lastRunes(itinerary, activitiesChars)),
		fmt.Sprintf("The best spot in %s, captured in a travel photograph", destination),
		fmt.Sprintf("The essence of a %s trip to %s", tripType, destination),
	}
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
