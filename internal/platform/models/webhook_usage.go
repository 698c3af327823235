package models

import "encoding/json"

type UsageStatus string

const (
	UsagePending UsageStatus = "pending"
	UsageSuccess UsageStatus = "success"
	UsageError   UsageStatus = "error"
)

// WebhookUsage records a single dispatch attempt. Rows start "pending" and
// transition exactly once to "success" or "error". SubscriptionData holds the
// raw web-push subscription JSON when the caller asked for a push round-trip;
// WebPushSentAt is stamped after the first successful push so repeated
// callbacks stay idempotent.
type WebhookUsage struct {
	ID               string          `json:"id"`
	WebhookID        string          `json:"webhook_id"`
	Event            EventType       `json:"event"`
	Status           UsageStatus     `json:"status"`
	SubscriptionData json.RawMessage `json:"webpush_subscription_data,omitempty"`
	WebPushSentAt    int64           `json:"webpush_sent_at,omitempty"`
	CreatedAt        int64           `json:"created_at"`
	UpdatedAt        int64           `json:"updated_at"`
}
