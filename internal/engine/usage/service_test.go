package usage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

type fakeSender struct {
	calls   int
	lastMsg []byte
	err     error
}

func (f *fakeSender) Send(subscription json.RawMessage, payload []byte) error {
	f.calls++
	f.lastMsg = payload
	return f.err
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	query := `
	CREATE TABLE webhook_usage (
		id TEXT PRIMARY KEY,
		webhook_id TEXT NOT NULL,
		event TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		webpush_subscription_data TEXT,
		webpush_sent_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func insertUsage(t *testing.T, db *sql.DB, id string, subscription interface{}) {
	now := time.Now().Unix()
	_, err := db.Exec(`INSERT INTO webhook_usage (id, webhook_id, event, status, webpush_subscription_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, "wh1", "page_opened", "pending", subscription, now, now)
	if err != nil {
		t.Fatalf("Failed to insert usage: %v", err)
	}
}

func showAlert(message string) models.Action {
	return models.Action{
		Type:   models.ActionShowAlert,
		Params: json.RawMessage(`{"message":"` + message + `"}`),
	}
}

func TestService_ListFiltersByWebhook(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", nil)
	insertUsage(t, db, "u2", nil)
	now := time.Now().Unix()
	if _, err := db.Exec(`INSERT INTO webhook_usage (id, webhook_id, event, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u3", "wh2", "button_clicked", "success", now, now); err != nil {
		t.Fatal(err)
	}

	svc := NewService(repositories.NewUsageRepository(db), &fakeSender{})

	all, err := svc.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered list = %d rows, want 3", len(all))
	}

	filtered, err := svc.List("wh1")
	if err != nil {
		t.Fatalf("List(wh1) error = %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered list = %d rows, want 2", len(filtered))
	}
	for _, u := range filtered {
		if u.WebhookID != "wh1" {
			t.Errorf("filtered row webhook_id = %q, want wh1", u.WebhookID)
		}
	}

	none, err := svc.List("missing")
	if err != nil {
		t.Fatalf("List(missing) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("list for unknown webhook = %d rows, want 0", len(none))
	}
}

func TestService_CallbackSendsPush(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", `{"endpoint":"https://push.example.com/abc"}`)

	sender := &fakeSender{}
	svc := NewService(repositories.NewUsageRepository(db), sender)

	if err := svc.Callback("u1", CallbackPayload{Action: showAlert("hello")}); err != nil {
		t.Fatalf("Callback() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}

	var payload struct {
		Action models.Action `json:"action"`
	}
	if err := json.Unmarshal(sender.lastMsg, &payload); err != nil {
		t.Fatalf("push payload is not JSON: %v", err)
	}
	if payload.Action.Type != models.ActionShowAlert {
		t.Errorf("pushed action type = %q", payload.Action.Type)
	}

	u, err := svc.Get("u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.WebPushSentAt == 0 {
		t.Error("webpush_sent_at not stamped")
	}
	if u.Status != models.UsagePending {
		t.Errorf("callback must not change status, got %q", u.Status)
	}
}

func TestService_CallbackIdempotent(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", `{"endpoint":"https://push.example.com/abc"}`)

	sender := &fakeSender{}
	svc := NewService(repositories.NewUsageRepository(db), sender)

	if err := svc.Callback("u1", CallbackPayload{Action: showAlert("one")}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Callback("u1", CallbackPayload{Action: showAlert("two")}); err != nil {
		t.Fatalf("repeated Callback() error = %v", err)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1 (idempotent)", sender.calls)
	}
}

func TestService_CallbackWithoutSubscription(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", nil)

	sender := &fakeSender{}
	svc := NewService(repositories.NewUsageRepository(db), sender)

	err := svc.Callback("u1", CallbackPayload{Action: showAlert("hello")})
	apiErr, ok := err.(*apperrors.APIError)
	if !ok || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("Callback() error = %v, want 400", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender calls = %d, want 0", sender.calls)
	}
}

func TestService_CallbackUnknownUsage(t *testing.T) {
	db := setupTestDB(t)

	svc := NewService(repositories.NewUsageRepository(db), &fakeSender{})

	err := svc.Callback("missing", CallbackPayload{Action: showAlert("hello")})
	apiErr, ok := err.(*apperrors.APIError)
	if !ok || apiErr.Status != http.StatusNotFound {
		t.Fatalf("Callback() error = %v, want 404", err)
	}
}

func TestService_CallbackInvalidAction(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", `{"endpoint":"https://push.example.com/abc"}`)

	sender := &fakeSender{}
	svc := NewService(repositories.NewUsageRepository(db), sender)

	err := svc.Callback("u1", CallbackPayload{Action: models.Action{Type: "explode"}})
	apiErr, ok := err.(*apperrors.APIError)
	if !ok || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("Callback() error = %v, want 400", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender calls = %d, want 0", sender.calls)
	}
}

func TestService_CallbackPushFailure(t *testing.T) {
	db := setupTestDB(t)
	insertUsage(t, db, "u1", `{"endpoint":"https://push.example.com/abc"}`)

	sender := &fakeSender{err: errors.New("push service down")}
	svc := NewService(repositories.NewUsageRepository(db), sender)

	err := svc.Callback("u1", CallbackPayload{Action: showAlert("hello")})
	apiErr, ok := err.(*apperrors.APIError)
	if !ok || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("Callback() error = %v, want 400", err)
	}

	// A failed push must stay retryable.
	u, getErr := svc.Get("u1")
	if getErr != nil {
		t.Fatal(getErr)
	}
	if u.WebPushSentAt != 0 {
		t.Error("webpush_sent_at stamped despite failed push")
	}
}
