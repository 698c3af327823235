package triggers

import (
	"regexp"

	"github.com/rs/zerolog/log"

	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

// Matcher resolves which triggers should fire for an incoming event.
type Matcher struct {
	triggers *repositories.TriggerRepository
}

func NewMatcher(triggers *repositories.TriggerRepository) *Matcher {
	return &Matcher{triggers: triggers}
}

// Match returns the triggers to fire, in stored order. A context carrying an
// explicit trigger id resolves exactly that trigger and skips event matching.
// Zero matches is a valid empty result, not an error.
func (m *Matcher) Match(event models.EventType, eventCtx models.EventContext) ([]*models.Trigger, error) {
	if eventCtx.TriggerID != "" {
		trigger, err := m.triggers.GetByID(eventCtx.TriggerID)
		if err != nil {
			return nil, err
		}
		if trigger == nil {
			return nil, errors.NotFound("Trigger not found")
		}
		return []*models.Trigger{trigger}, nil
	}

	candidates, err := m.triggers.List(event)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Trigger, 0, len(candidates))
	for _, trigger := range candidates {
		if MatchesURL(trigger, eventCtx.URL) {
			matched = append(matched, trigger)
		}
	}
	return matched, nil
}

// MatchesURL applies the trigger's url_regex filter with search semantics: a
// nil pattern or an absent url always passes. A pattern that fails to compile
// disables the trigger rather than failing the whole match.
func MatchesURL(trigger *models.Trigger, url string) bool {
	if trigger.URLRegex == nil || url == "" {
		return true
	}

	re, err := regexp.Compile(*trigger.URLRegex)
	if err != nil {
		log.Warn().Err(err).Str("trigger_id", trigger.ID).Str("pattern", *trigger.URLRegex).Msg("invalid trigger url_regex")
		return false
	}
	return re.MatchString(url)
}
