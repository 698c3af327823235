package usage

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

// PushSender delivers a push message to a stored subscription. The web-push
// implementation lives in internal/pkg/webpush; tests swap in a fake.
type PushSender interface {
	Send(subscription json.RawMessage, payload []byte) error
}

// CallbackPayload is what the remote webhook receiver reports back once it
// has processed a dispatch asynchronously.
type CallbackPayload struct {
	Action models.Action `json:"action"`
}

type Service struct {
	usage *repositories.UsageRepository
	push  PushSender
}

func NewService(usage *repositories.UsageRepository, push PushSender) *Service {
	return &Service{usage: usage, push: push}
}

func (s *Service) Get(id string) (*models.WebhookUsage, error) {
	u, err := s.usage.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.NotFound("Webhook usage not found")
	}
	return u, nil
}

func (s *Service) List(webhookID string) ([]*models.WebhookUsage, error) {
	return s.usage.ListByWebhook(webhookID)
}

// Callback routes the reported action to the push bridge using the
// subscription stored at dispatch time. It is idempotent: after the first
// successful push, repeats succeed without sending again. The usage status
// field is not touched here.
func (s *Service) Callback(id string, payload CallbackPayload) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if len(u.SubscriptionData) == 0 {
		return errors.Validation("Webhook usage has no push subscription data")
	}
	if err := payload.Action.Validate(); err != nil {
		return errors.Validation(err.Error())
	}

	if u.WebPushSentAt > 0 {
		log.Debug().Str("usage_id", id).Msg("push already sent, skipping")
		return nil
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := s.push.Send(u.SubscriptionData, message); err != nil {
		log.Error().Err(err).Str("usage_id", id).Msg("push delivery failed")
		return errors.Validation("Failed to callback webhook usage")
	}

	return s.usage.MarkWebPushSent(id, time.Now().Unix())
}
