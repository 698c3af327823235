package webhooks

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

var urlPattern = regexp.MustCompile(`^https?://`)

// Service owns webhook CRUD. Deleting a webhook still referenced by triggers
// is blocked with a conflict rather than cascading or orphaning.
type Service struct {
	webhooks *repositories.WebhookRepository
	triggers *repositories.TriggerRepository
}

func NewService(webhooks *repositories.WebhookRepository, triggers *repositories.TriggerRepository) *Service {
	return &Service{webhooks: webhooks, triggers: triggers}
}

func (s *Service) Create(name, url string) (*models.Webhook, error) {
	if name == "" {
		return nil, errors.Validation("Webhook name is required")
	}
	if !urlPattern.MatchString(url) {
		return nil, errors.Validation("Webhook url must be an http(s) URL")
	}

	now := time.Now().Unix()
	webhook := &models.Webhook{
		ID:        uuid.New().String(),
		Name:      name,
		URL:       url,
		AuthToken: uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.webhooks.Create(webhook); err != nil {
		return nil, err
	}
	return webhook, nil
}

func (s *Service) Get(id string) (*models.Webhook, error) {
	webhook, err := s.webhooks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if webhook == nil {
		return nil, errors.NotFound("Webhook not found")
	}
	return webhook, nil
}

func (s *Service) List() ([]*models.Webhook, error) {
	return s.webhooks.List()
}

// UpdatePatch carries the fields a webhook update may change. Nil means the
// field was omitted and the stored value is kept.
type UpdatePatch struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

func (s *Service) Update(id string, patch UpdatePatch) (*models.Webhook, error) {
	webhook, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		webhook.Name = *patch.Name
	}
	if patch.URL != nil {
		if !urlPattern.MatchString(*patch.URL) {
			return nil, errors.Validation("Webhook url must be an http(s) URL")
		}
		webhook.URL = *patch.URL
	}
	webhook.UpdatedAt = time.Now().Unix()

	if err := s.webhooks.Update(webhook); err != nil {
		return nil, err
	}
	return webhook, nil
}

func (s *Service) Delete(id string) error {
	count, err := s.triggers.CountByWebhook(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.Conflict("Webhook is referenced by triggers")
	}

	affected, err := s.webhooks.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NotFound("Webhook not found")
	}
	return nil
}
