// Package persistence provides a SQLite-backed store for generated plans
// and the review actions applied to them.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"tripplanner/pkg/itinerary"
	"tripplanner/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
	request_id   TEXT PRIMARY KEY,
	destination  TEXT NOT NULL,
	days         INTEGER NOT NULL,
	plan_json    TEXT NOT NULL,
	needs_review INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS review_actions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL REFERENCES plans(request_id),
	action     TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_review_actions_request ON review_actions(request_id);
`

// PlanRecord is one stored plan row.
type PlanRecord struct {
	CreatedAt   time.Time
	RequestID   string
	Destination string
	Plan        itinerary.Plan
	Days        int
	NeedsReview bool
}

// Store persists plans and review actions in SQLite.
type Store struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open creates or opens the store at dbPath and applies the schema.
func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	// The sqlite driver serializes writes; one connection avoids
	// SQLITE_BUSY under concurrent access.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, logger: logx.NewLogger("persistence")}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlan upserts a plan under its request ID.
func (s *Store) SavePlan(ctx context.Context, requestID string, plan itinerary.Plan, needsReview bool) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (request_id, destination, days, plan_json, needs_review, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			destination = excluded.destination,
			days = excluded.days,
			plan_json = excluded.plan_json,
			needs_review = excluded.needs_review`,
		requestID, plan.Destination, plan.Days, string(raw), needsReview, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", requestID, err)
	}
	s.logger.Debug("saved plan %s (%s, %d days, review=%v)", requestID, plan.Destination, plan.Days, needsReview)
	return nil
}

// GetPlan loads a stored plan by request ID.
func (s *Store) GetPlan(ctx context.Context, requestID string) (PlanRecord, error) {
	var rec PlanRecord
	var planJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT request_id, destination, days, plan_json, needs_review, created_at
		FROM plans WHERE request_id = ?`, requestID).
		Scan(&rec.RequestID, &rec.Destination, &rec.Days, &planJSON, &rec.NeedsReview, &rec.CreatedAt)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("failed to load plan %s: %w", requestID, err)
	}
	if err := json.Unmarshal([]byte(planJSON), &rec.Plan); err != nil {
		return PlanRecord{}, fmt.Errorf("failed to decode plan %s: %w", requestID, err)
	}
	return rec, nil
}

// SaveReviewAction appends an audit row for a review decision.
func (s *Store) SaveReviewAction(ctx context.Context, requestID, action, notes string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_actions (request_id, action, notes, created_at) VALUES (?, ?, ?, ?)`,
		requestID, action, notes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save review action for %s: %w", requestID, err)
	}
	return nil
}

// ListPlans returns stored plans, newest first.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, destination, days, plan_json, needs_review, created_at
		FROM plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var records []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		var planJSON string
		if err := rows.Scan(&rec.RequestID, &rec.Destination, &rec.Days, &planJSON, &rec.NeedsReview, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		if err := json.Unmarshal([]byte(planJSON), &rec.Plan); err != nil {
			return nil, fmt.Errorf("failed to decode plan %s: %w", rec.RequestID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
