package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akarpov/claimroute/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	document      TEXT NOT NULL,
	status        TEXT NOT NULL,
	reason        TEXT NOT NULL DEFAULT '',
	policy_number TEXT NOT NULL DEFAULT '',
	claim_type    TEXT NOT NULL DEFAULT '',
	confidence    REAL NOT NULL DEFAULT 0,
	compliant     INTEGER NOT NULL DEFAULT 0,
	decision      TEXT NOT NULL DEFAULT '',
	recorded_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_recorded_at ON decisions(recorded_at);
`

// SQLiteStore is the sqlite-backed decision log. Safe for concurrent use;
// writes are serialized through database/sql and WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the decision log at path.
// ":memory:" is accepted for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record appends one pipeline outcome
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (document, status, reason, policy_number, claim_type, confidence, compliant, decision, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Document, string(e.Status), e.Reason, e.PolicyNumber, e.ClaimType,
		e.Confidence, boolToInt(e.Compliant), string(e.Decision), e.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document, status, reason, policy_number, claim_type, confidence, compliant, decision, recorded_at
		FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, decision string
		var compliant int
		if err := rows.Scan(&e.Document, &status, &e.Reason, &e.PolicyNumber, &e.ClaimType,
			&e.Confidence, &compliant, &decision, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Status = model.Status(status)
		e.Decision = model.Decision(decision)
		e.Compliant = compliant != 0
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
