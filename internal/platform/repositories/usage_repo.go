package repositories

import (
	"database/sql"
	"encoding/json"

	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
)

type UsageRepository struct {
	db database.DBTX
}

func NewUsageRepository(db database.DBTX) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Create(usage *models.WebhookUsage) error {
	var subscription interface{}
	if len(usage.SubscriptionData) > 0 {
		subscription = string(usage.SubscriptionData)
	}

	query := `
		INSERT INTO webhook_usage (id, webhook_id, event, status, webpush_subscription_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, usage.ID, usage.WebhookID, string(usage.Event), string(usage.Status),
		subscription, usage.CreatedAt, usage.UpdatedAt)
	return err
}

// GetByID returns (nil, nil) when no usage row has the given id.
func (r *UsageRepository) GetByID(id string) (*models.WebhookUsage, error) {
	query := `
		SELECT id, webhook_id, event, status, webpush_subscription_data, webpush_sent_at, created_at, updated_at
		FROM webhook_usage WHERE id = ?
	`
	row := r.db.QueryRow(query, id)

	u, err := scanUsage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UsageRepository) ListByWebhook(webhookID string) ([]*models.WebhookUsage, error) {
	query := `
		SELECT id, webhook_id, event, status, webpush_subscription_data, webpush_sent_at, created_at, updated_at
		FROM webhook_usage
	`
	args := []interface{}{}
	if webhookID != "" {
		query += ` WHERE webhook_id = ?`
		args = append(args, webhookID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*models.WebhookUsage
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

func (r *UsageRepository) UpdateStatus(id string, status models.UsageStatus, updatedAt int64) error {
	query := `UPDATE webhook_usage SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, string(status), updatedAt, id)
	return err
}

func (r *UsageRepository) MarkWebPushSent(id string, sentAt int64) error {
	query := `UPDATE webhook_usage SET webpush_sent_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, sentAt, sentAt, id)
	return err
}

func scanUsage(row rowScanner) (*models.WebhookUsage, error) {
	var u models.WebhookUsage
	var subscription sql.NullString
	var sentAt sql.NullInt64

	err := row.Scan(&u.ID, &u.WebhookID, &u.Event, &u.Status, &subscription, &sentAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if subscription.Valid {
		u.SubscriptionData = json.RawMessage(subscription.String)
	}
	if sentAt.Valid {
		u.WebPushSentAt = sentAt.Int64
	}
	return &u, nil
}
