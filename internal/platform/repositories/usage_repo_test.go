package repositories

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"hercule/internal/platform/models"
)

func TestUsageRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUsageRepository(db)

	mock.ExpectExec("INSERT INTO webhook_usage").
		WithArgs("u1", "wh1", "page_opened", "pending", `{"endpoint":"e"}`, int64(100), int64(100)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	usage := &models.WebhookUsage{
		ID:               "u1",
		WebhookID:        "wh1",
		Event:            models.EventPageOpened,
		Status:           models.UsagePending,
		SubscriptionData: json.RawMessage(`{"endpoint":"e"}`),
		CreatedAt:        100,
		UpdatedAt:        100,
	}
	if err := repo.Create(usage); err != nil {
		t.Errorf("Create() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUsageRepository_CreateWithoutSubscription(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUsageRepository(db)

	// No subscription stores NULL, not an empty string.
	mock.ExpectExec("INSERT INTO webhook_usage").
		WithArgs("u1", "wh1", "button_clicked", "pending", nil, int64(100), int64(100)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	usage := &models.WebhookUsage{
		ID:        "u1",
		WebhookID: "wh1",
		Event:     models.EventButtonClicked,
		Status:    models.UsagePending,
		CreatedAt: 100,
		UpdatedAt: 100,
	}
	if err := repo.Create(usage); err != nil {
		t.Errorf("Create() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUsageRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUsageRepository(db)

	mock.ExpectExec("UPDATE webhook_usage SET status").
		WithArgs("success", int64(200), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus("u1", models.UsageSuccess, 200); err != nil {
		t.Errorf("UpdateStatus() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUsageRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUsageRepository(db)

	rows := sqlmock.NewRows([]string{"id", "webhook_id", "event", "status", "webpush_subscription_data", "webpush_sent_at", "created_at", "updated_at"}).
		AddRow("u1", "wh1", "page_opened", "success", `{"endpoint":"e"}`, nil, 100, 200)
	mock.ExpectQuery("SELECT (.+) FROM webhook_usage WHERE id").
		WithArgs("u1").
		WillReturnRows(rows)

	u, err := repo.GetByID("u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if u.Status != models.UsageSuccess {
		t.Errorf("status = %q, want success", u.Status)
	}
	if string(u.SubscriptionData) != `{"endpoint":"e"}` {
		t.Errorf("subscription = %q", u.SubscriptionData)
	}
	if u.WebPushSentAt != 0 {
		t.Errorf("webpush_sent_at = %d, want 0 for NULL", u.WebPushSentAt)
	}
}

func TestUsageRepository_GetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUsageRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM webhook_usage WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "webhook_id", "event", "status", "webpush_subscription_data", "webpush_sent_at", "created_at", "updated_at"}))

	u, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing row, got %v", u)
	}
}
