package models

// Webhook is a registered outbound HTTP endpoint. AuthToken is generated
// server-side at creation and never leaves the service.
type Webhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	AuthToken string `json:"-"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Trigger binds an application event (plus an optional URL filter) to a webhook.
// A nil URLRegex matches every URL.
type Trigger struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	WebhookID string        `json:"webhook_id"`
	Source    TriggerSource `json:"source"`
	Event     EventType     `json:"event"`
	URLRegex  *string       `json:"url_regex"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}
