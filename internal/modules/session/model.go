// README: Planning session: one per planning request, carried across selection and delivery.
package session

import (
	"time"

	"github.com/google/uuid"

	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
)

type Session struct {
	ID           string                        `json:"id"`
	Preferences  preference.TripPreferences    `json:"preferences"`
	Destinations []string                      `json:"destinations"`
	Options      []planning.TravelOption       `json:"options"`
	Skipped      []planning.SkippedDestination `json:"skipped"`
	Selected     *int                          `json:"selected,omitempty"`
	Itinerary    string                        `json:"itinerary,omitempty"`
	Images       []string                      `json:"images,omitempty"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// New starts a session with a fresh id.
func New(prefs preference.TripPreferences, destinations []string, res planning.Result) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.NewString(),
		Preferences:  prefs,
		Destinations: destinations,
		Options:      res.Options,
		Skipped:      res.Skipped,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Select records the generated plan for option index.
func (s *Session) Select(index int, itinerary string, images []string) {
	s.Selected = &index
	s.Itinerary = itinerary
	s.Images = images
	s.UpdatedAt = time.Now().UTC()
}

// HasPlan reports whether an itinerary was generated for this session.
func (s *Session) HasPlan() bool {
	return s.Selected != nil && s.Itinerary != ""
}

// SelectedOption returns the chosen option, if any.
func (s *Session) SelectedOption() (planning.TravelOption, bool) {
	if s.Selected == nil || *s.Selected < 0 || *s.Selected >= len(s.Options) {
		return planning.TravelOption{}, false
	}
	return s.Options[*s.Selected], true
}
