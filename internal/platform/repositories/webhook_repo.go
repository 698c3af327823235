package repositories

import (
	"database/sql"

	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
)

type WebhookRepository struct {
	db database.DBTX
}

func NewWebhookRepository(db database.DBTX) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(webhook *models.Webhook) error {
	query := `
		INSERT INTO webhooks (id, name, url, auth_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, webhook.ID, webhook.Name, webhook.URL, webhook.AuthToken, webhook.CreatedAt, webhook.UpdatedAt)
	return err
}

// GetByID returns (nil, nil) when no webhook has the given id.
func (r *WebhookRepository) GetByID(id string) (*models.Webhook, error) {
	query := `SELECT id, name, url, auth_token, created_at, updated_at FROM webhooks WHERE id = ?`
	row := r.db.QueryRow(query, id)

	var w models.Webhook
	err := row.Scan(&w.ID, &w.Name, &w.URL, &w.AuthToken, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WebhookRepository) List() ([]*models.Webhook, error) {
	query := `SELECT id, name, url, auth_token, created_at, updated_at FROM webhooks ORDER BY created_at, id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []*models.Webhook
	for rows.Next() {
		var w models.Webhook
		if err := rows.Scan(&w.ID, &w.Name, &w.URL, &w.AuthToken, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		webhooks = append(webhooks, &w)
	}
	return webhooks, rows.Err()
}

func (r *WebhookRepository) Update(webhook *models.Webhook) error {
	query := `UPDATE webhooks SET name = ?, url = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, webhook.Name, webhook.URL, webhook.UpdatedAt, webhook.ID)
	return err
}

func (r *WebhookRepository) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
