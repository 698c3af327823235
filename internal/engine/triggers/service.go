package triggers

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/google/uuid"

	"hercule/internal/pkg/errors"
	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

const defaultURLRegex = ".*"

// Service owns trigger CRUD. Creation supports the webhook_url shorthand:
// when the caller has no registered webhook yet, a fresh one is created in the
// same transaction and the trigger bound to it.
type Service struct {
	db       *sql.DB
	triggers *repositories.TriggerRepository
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, triggers: repositories.NewTriggerRepository(db)}
}

type CreateInput struct {
	Name       string               `json:"name"`
	WebhookID  string               `json:"webhook_id"`
	WebhookURL string               `json:"webhook_url"`
	Source     models.TriggerSource `json:"source"`
	Event      models.EventType     `json:"event"`
	URLRegex   *string              `json:"url_regex"`
}

func (s *Service) Create(in CreateInput) (*models.Trigger, error) {
	if in.Name == "" {
		return nil, errors.Validation("Trigger name is required")
	}
	if in.Source == "" {
		in.Source = models.SourceN8N
	}
	if !in.Source.Valid() {
		return nil, errors.Validation("Unknown trigger source")
	}
	if in.Event == "" {
		in.Event = models.EventButtonClicked
	}
	if !in.Event.Valid() {
		return nil, errors.Validation("Unknown event type")
	}
	if in.URLRegex == nil {
		pattern := defaultURLRegex
		in.URLRegex = &pattern
	}
	if _, err := regexp.Compile(*in.URLRegex); err != nil {
		return nil, errors.Validation("Invalid url_regex")
	}
	if in.WebhookID == "" && in.WebhookURL == "" {
		return nil, errors.Validation("One of webhook_id or webhook_url is required")
	}

	now := time.Now().Unix()
	trigger := &models.Trigger{
		ID:        uuid.New().String(),
		Name:      in.Name,
		WebhookID: in.WebhookID,
		Source:    in.Source,
		Event:     in.Event,
		URLRegex:  in.URLRegex,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		webhooks := repositories.NewWebhookRepository(tx)

		if trigger.WebhookID == "" {
			webhook := &models.Webhook{
				ID:        uuid.New().String(),
				Name:      in.Name,
				URL:       in.WebhookURL,
				AuthToken: uuid.New().String(),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := webhooks.Create(webhook); err != nil {
				return err
			}
			trigger.WebhookID = webhook.ID
		} else {
			webhook, err := webhooks.GetByID(trigger.WebhookID)
			if err != nil {
				return err
			}
			if webhook == nil {
				return errors.Unprocessable("Webhook should exist")
			}
		}

		return repositories.NewTriggerRepository(tx).Create(trigger)
	})
	if err != nil {
		return nil, err
	}
	return trigger, nil
}

func (s *Service) Get(id string) (*models.Trigger, error) {
	trigger, err := s.triggers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if trigger == nil {
		return nil, errors.NotFound("Trigger not found")
	}
	return trigger, nil
}

// List returns triggers optionally narrowed by event type and by a url the
// triggers' url_regex filters must match.
func (s *Service) List(event models.EventType, url string) ([]*models.Trigger, error) {
	if event != "" && !event.Valid() {
		return nil, errors.Validation("Unknown event type")
	}

	triggers, err := s.triggers.List(event)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return triggers, nil
	}

	filtered := make([]*models.Trigger, 0, len(triggers))
	for _, trigger := range triggers {
		if MatchesURL(trigger, url) {
			filtered = append(filtered, trigger)
		}
	}
	return filtered, nil
}

// UpdatePatch carries the updatable trigger fields. Nil means the field was
// omitted and keeps its stored value.
type UpdatePatch struct {
	Name     *string `json:"name"`
	Event    *string `json:"event"`
	URLRegex *string `json:"url_regex"`
}

func (s *Service) Update(id string, patch UpdatePatch) (*models.Trigger, error) {
	trigger, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		trigger.Name = *patch.Name
	}
	if patch.Event != nil {
		event := models.EventType(*patch.Event)
		if !event.Valid() {
			return nil, errors.Validation("Unknown event type")
		}
		trigger.Event = event
	}
	if patch.URLRegex != nil {
		if _, err := regexp.Compile(*patch.URLRegex); err != nil {
			return nil, errors.Validation("Invalid url_regex")
		}
		trigger.URLRegex = patch.URLRegex
	}
	trigger.UpdatedAt = time.Now().Unix()

	if err := s.triggers.Update(trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}

func (s *Service) Delete(id string) error {
	affected, err := s.triggers.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NotFound("Trigger not found")
	}
	return nil
}
