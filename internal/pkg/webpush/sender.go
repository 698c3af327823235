package webpush

import (
	"encoding/json"
	"fmt"
	"io"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"

	"hercule/internal/platform/config"
)

// Sender delivers VAPID web-push messages to browser subscriptions. It is the
// concrete Push Notification Bridge behind the usage callback.
type Sender struct {
	cfg config.WebPushConfig
}

func NewSender(cfg config.WebPushConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send pushes payload to the subscription, given as the raw JSON blob the
// browser produced ({endpoint, keys: {p256dh, auth}}).
func (s *Sender) Send(subscription json.RawMessage, payload []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal(subscription, &sub); err != nil {
		return fmt.Errorf("invalid subscription data: %w", err)
	}
	if sub.Endpoint == "" {
		return fmt.Errorf("subscription has no endpoint")
	}

	resp, err := webpush.SendNotification(payload, &sub, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push service responded with HTTP %d: %s", resp.StatusCode, body)
	}

	log.Info().Str("endpoint", sub.Endpoint).Msg("webpush sent")
	return nil
}
