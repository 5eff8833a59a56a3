// Package store persists optimization decisions for auditability.
//
// DESIGN: Single-file SQLite in WAL mode with one writer connection.
// The table mirrors the strategy metadata so support can answer "why
// was my prompt rewritten" weeks after the fact. Retention pruning is
// driven by the scheduler in cmd.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Record is one persisted optimization decision.
type Record struct {
	ID              int64     `json:"id"`
	RequestID       string    `json:"requestId"`
	CreatedAt       time.Time `json:"createdAt"`
	Strategy        string    `json:"strategy"`
	PromptType      string    `json:"promptType"`
	Reason          string    `json:"reason"`
	BudgetTarget    int       `json:"budgetTarget"`
	OriginalLength  int       `json:"originalLength"`
	OptimizedLength int       `json:"optimizedLength"`
	ReductionRatio  float64   `json:"reductionRatio"`
	ComplexityScore int       `json:"complexityScore"`
	WasChanged      bool      `json:"wasChanged"`
}

// Open opens (or creates) the store at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open store '%s': %w", path, err)
	}
	// SQLite allows one writer; serializing through a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS optimizations (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id       TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	strategy         TEXT NOT NULL,
	prompt_type      TEXT NOT NULL,
	reason           TEXT NOT NULL,
	budget_target    INTEGER NOT NULL,
	original_length  INTEGER NOT NULL,
	optimized_length INTEGER NOT NULL,
	reduction_ratio  REAL NOT NULL,
	complexity_score INTEGER NOT NULL,
	was_changed      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_optimizations_created_at ON optimizations(created_at);
CREATE INDEX IF NOT EXISTS idx_optimizations_request_id ON optimizations(request_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	return nil
}

// RecordDecision persists one engine decision.
func (s *Store) RecordDecision(ctx context.Context, requestID string, meta engine.StrategyMeta) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO optimizations
	(request_id, strategy, prompt_type, reason, budget_target,
	 original_length, optimized_length, reduction_ratio, complexity_score, was_changed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID,
		string(meta.Strategy),
		string(meta.PromptType),
		meta.Reason,
		meta.BudgetTarget,
		meta.OriginalLength,
		meta.OptimizedLength,
		meta.ReductionRatio,
		meta.ComplexityScore,
		meta.WasChanged,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// Recent returns the most recent decisions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, request_id, created_at, strategy, prompt_type, reason,
       budget_target, original_length, optimized_length,
       reduction_ratio, complexity_score, was_changed
FROM optimizations
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.RequestID, &r.CreatedAt, &r.Strategy, &r.PromptType,
			&r.Reason, &r.BudgetTarget, &r.OriginalLength, &r.OptimizedLength,
			&r.ReductionRatio, &r.ComplexityScore, &r.WasChanged,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneBefore deletes records older than cutoff and reports how many
// were removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM optimizations WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune decisions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned decisions: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
