package repositories

import (
	"database/sql"

	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
)

type TriggerRepository struct {
	db database.DBTX
}

func NewTriggerRepository(db database.DBTX) *TriggerRepository {
	return &TriggerRepository{db: db}
}

func (r *TriggerRepository) Create(trigger *models.Trigger) error {
	query := `
		INSERT INTO triggers (id, name, webhook_id, source, event, url_regex, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, trigger.ID, trigger.Name, trigger.WebhookID, string(trigger.Source),
		string(trigger.Event), trigger.URLRegex, trigger.CreatedAt, trigger.UpdatedAt)
	return err
}

// GetByID returns (nil, nil) when no trigger has the given id.
func (r *TriggerRepository) GetByID(id string) (*models.Trigger, error) {
	query := `SELECT id, name, webhook_id, source, event, url_regex, created_at, updated_at FROM triggers WHERE id = ?`
	row := r.db.QueryRow(query, id)

	t, err := scanTrigger(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns triggers ordered by insertion, optionally narrowed to one event
// type. URL filtering happens in the matcher, not here.
func (r *TriggerRepository) List(event models.EventType) ([]*models.Trigger, error) {
	query := `SELECT id, name, webhook_id, source, event, url_regex, created_at, updated_at FROM triggers`
	args := []interface{}{}
	if event != "" {
		query += ` WHERE event = ?`
		args = append(args, string(event))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triggers []*models.Trigger
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}

func (r *TriggerRepository) Update(trigger *models.Trigger) error {
	query := `UPDATE triggers SET name = ?, event = ?, url_regex = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, trigger.Name, string(trigger.Event), trigger.URLRegex, trigger.UpdatedAt, trigger.ID)
	return err
}

func (r *TriggerRepository) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM triggers WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TriggerRepository) CountByWebhook(webhookID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM triggers WHERE webhook_id = ?`, webhookID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrigger(row rowScanner) (*models.Trigger, error) {
	var t models.Trigger
	var urlRegex sql.NullString

	err := row.Scan(&t.ID, &t.Name, &t.WebhookID, &t.Source, &t.Event, &urlRegex, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if urlRegex.Valid {
		t.URLRegex = &urlRegex.String
	}
	return &t, nil
}
