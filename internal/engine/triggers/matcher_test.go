package triggers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	query := `
	CREATE TABLE webhooks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		auth_token TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE triggers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		webhook_id TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'n8n',
		event TEXT NOT NULL DEFAULT 'button_clicked',
		url_regex TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
	return db
}

func insertTrigger(t *testing.T, db *sql.DB, id string, event models.EventType, urlRegex *string) {
	now := time.Now().Unix()
	_, err := db.Exec(`INSERT INTO triggers (id, name, webhook_id, event, url_regex, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, "trigger "+id, "wh1", string(event), urlRegex, now, now)
	if err != nil {
		t.Fatalf("Failed to insert trigger: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestMatcher_MatchByEvent(t *testing.T) {
	db := setupTestDB(t)
	insertTrigger(t, db, "t1", models.EventPageOpened, nil)
	insertTrigger(t, db, "t2", models.EventButtonClicked, nil)

	m := NewMatcher(repositories.NewTriggerRepository(db))
	matched, err := m.Match(models.EventPageOpened, models.EventContext{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "t1" {
		t.Errorf("matched = %v, want [t1]", matched)
	}
}

func TestMatcher_URLRegexFilter(t *testing.T) {
	tests := []struct {
		name     string
		urlRegex *string
		url      string
		want     bool
	}{
		{"nil regex always passes", nil, "https://example.com", true},
		{"empty url always passes", strPtr(`^https://only\.this`), "", true},
		{"search semantics match mid-string", strPtr(`example\.com`), "https://www.example.com/page", true},
		{"non-matching pattern filters out", strPtr(`^https://other\.com`), "https://example.com", false},
		{"match-all default", strPtr(".*"), "https://anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			insertTrigger(t, db, "t1", models.EventPageOpened, tt.urlRegex)

			m := NewMatcher(repositories.NewTriggerRepository(db))
			matched, err := m.Match(models.EventPageOpened, models.EventContext{URL: tt.url})
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got := len(matched) == 1; got != tt.want {
				t.Errorf("matched = %v, want match = %v", matched, tt.want)
			}
		})
	}
}

func TestMatcher_TriggerIDBypassesEventSearch(t *testing.T) {
	db := setupTestDB(t)
	// Event type on the stored trigger differs from the fired event on purpose.
	insertTrigger(t, db, "t1", models.EventButtonClicked, nil)

	m := NewMatcher(repositories.NewTriggerRepository(db))
	matched, err := m.Match(models.EventManualTriggerInPopup, models.EventContext{TriggerID: "t1"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "t1" {
		t.Errorf("matched = %v, want [t1]", matched)
	}
}

func TestMatcher_TriggerIDNotFound(t *testing.T) {
	db := setupTestDB(t)

	m := NewMatcher(repositories.NewTriggerRepository(db))
	_, err := m.Match(models.EventManualTriggerInPopup, models.EventContext{TriggerID: "missing"})

	apiErr, ok := err.(*apperrors.APIError)
	if !ok || apiErr.Status != http.StatusNotFound {
		t.Fatalf("Match() error = %v, want 404", err)
	}
}

func TestMatcher_NoMatchesIsEmptyNotError(t *testing.T) {
	db := setupTestDB(t)

	m := NewMatcher(repositories.NewTriggerRepository(db))
	matched, err := m.Match(models.EventPageOpened, models.EventContext{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 0 {
		t.Errorf("matched = %v, want empty", matched)
	}
}

func TestMatcher_InvalidStoredRegexSkipsTrigger(t *testing.T) {
	db := setupTestDB(t)
	insertTrigger(t, db, "t1", models.EventPageOpened, strPtr("("))
	insertTrigger(t, db, "t2", models.EventPageOpened, nil)

	m := NewMatcher(repositories.NewTriggerRepository(db))
	matched, err := m.Match(models.EventPageOpened, models.EventContext{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "t2" {
		t.Errorf("matched = %v, want [t2]", matched)
	}
}

func TestMatcher_PreservesStoredOrder(t *testing.T) {
	db := setupTestDB(t)
	base := time.Now().Unix()
	for i, id := range []string{"a", "b", "c"} {
		_, err := db.Exec(`INSERT INTO triggers (id, name, webhook_id, event, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, "trigger "+id, "wh1", string(models.EventPageOpened), base+int64(i), base+int64(i))
		if err != nil {
			t.Fatal(err)
		}
	}

	m := NewMatcher(repositories.NewTriggerRepository(db))
	matched, err := m.Match(models.EventPageOpened, models.EventContext{})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if matched[i].ID != want {
			t.Errorf("matched[%d] = %s, want %s", i, matched[i].ID, want)
		}
	}
}
