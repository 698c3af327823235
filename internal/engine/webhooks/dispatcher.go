package webhooks

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hercule/internal/pkg/errors"
	"hercule/internal/platform/config"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

const (
	HeaderAuthKey   = "X-Hercule-Auth-Key"
	HeaderTimestamp = "X-Hercule-Timestamp"

	defaultConnectTimeout = 5 * time.Second
	defaultTotalTimeout   = 10 * time.Second

	maxResponseBytes = 1 << 20
)

// Result is the parsed response of a webhook call. Actions stay raw: the
// client interprets them, the relay only forwards.
type Result struct {
	Status  string          `json:"status"`
	Actions json.RawMessage `json:"actions,omitempty"`
}

type callBody struct {
	Event          models.EventType    `json:"event"`
	Context        models.EventContext `json:"context"`
	WebhookUsageID string              `json:"webhook_usage_id"`
}

// Dispatcher performs signed HTTP calls to registered webhooks and records a
// WebhookUsage row per attempt.
type Dispatcher struct {
	webhooks *repositories.WebhookRepository
	usage    *repositories.UsageRepository
	client   *http.Client
}

func NewDispatcher(webhooks *repositories.WebhookRepository, usage *repositories.UsageRepository, cfg config.DispatchConfig) *Dispatcher {
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = defaultConnectTimeout
	}
	total := cfg.TotalTimeout
	if total <= 0 {
		total = defaultTotalTimeout
	}

	return &Dispatcher{
		webhooks: webhooks,
		usage:    usage,
		client: &http.Client{
			Timeout: total,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connect}).DialContext,
			},
		},
	}
}

// Call dispatches one webhook: creates a pending usage row, POSTs the signed
// payload, and settles the row to "success" or "error". The returned usage id
// travels in the payload so the remote can report back asynchronously.
func (d *Dispatcher) Call(webhookID string, event models.EventType, eventCtx models.EventContext, subscription json.RawMessage) (*Result, error) {
	webhook, err := d.webhooks.GetByID(webhookID)
	if err != nil {
		return nil, err
	}
	if webhook == nil {
		return nil, errors.NotFound("Webhook not found")
	}

	now := time.Now().Unix()
	usage := &models.WebhookUsage{
		ID:               uuid.New().String(),
		WebhookID:        webhook.ID,
		Event:            event,
		Status:           models.UsagePending,
		SubscriptionData: subscription,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := d.usage.Create(usage); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(callBody{
		Event:          event,
		Context:        eventCtx,
		WebhookUsageID: usage.ID,
	})
	if err != nil {
		d.settle(usage.ID, models.UsageError)
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, webhook.URL, bytes.NewReader(payload))
	if err != nil {
		d.settle(usage.ID, models.UsageError)
		return nil, &errors.DispatchError{Unreachable: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAuthKey, Sign(webhook.AuthToken, payload))
	req.Header.Set(HeaderTimestamp, unixTimestamp(time.Now()))

	resp, err := d.client.Do(req)
	if err != nil {
		d.settle(usage.ID, models.UsageError)
		log.Error().Err(err).Str("webhook_id", webhook.ID).Str("url", webhook.URL).Msg("webhook unreachable")
		return nil, &errors.DispatchError{Unreachable: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		d.settle(usage.ID, models.UsageError)
		return nil, &errors.DispatchError{Unreachable: true, Err: err}
	}

	if resp.StatusCode >= 400 {
		d.settle(usage.ID, models.UsageError)
		log.Warn().Int("status", resp.StatusCode).Str("webhook_id", webhook.ID).Msg("webhook responded with error")
		return nil, &errors.DispatchError{Status: resp.StatusCode, Body: string(body)}
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		d.settle(usage.ID, models.UsageError)
		return nil, &errors.DispatchError{Status: resp.StatusCode, Body: "invalid JSON response from webhook"}
	}

	d.settle(usage.ID, models.UsageSuccess)
	return &result, nil
}

func (d *Dispatcher) settle(usageID string, status models.UsageStatus) {
	if err := d.usage.UpdateStatus(usageID, status, time.Now().Unix()); err != nil {
		log.Error().Err(err).Str("usage_id", usageID).Msg("failed to update usage status")
	}
}

// unixTimestamp renders a fractional unix-seconds timestamp for the
// X-Hercule-Timestamp header.
func unixTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 6, 64)
}
