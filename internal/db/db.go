// Package db provides PostgreSQL persistence for editing-session snapshots
// and the applied-suggestion audit trail. The in-memory document store
// remains the single authority during a session; snapshots exist so a
// crashed or reconnecting client can recover its draft.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// SaveSnapshot upserts the current document JSON for one editing session.
func (db *DB) SaveSnapshot(ctx context.Context, sessionID uuid.UUID, resumeID string, doc any) error {
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO session_snapshots (session_id, resume_id, document)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET resume_id = $2, document = $3, updated_at = NOW()`,
		sessionID, resumeID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for session %s: %w", sessionID, err)
	}
	return nil
}

// GetSnapshot retrieves the stored document JSON for a session, or nil when
// no snapshot exists.
func (db *DB) GetSnapshot(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	var document []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM session_snapshots WHERE session_id = $1`,
		sessionID,
	).Scan(&document)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return document, nil
}

// DeleteSnapshot removes the stored snapshot for a session.
func (db *DB) DeleteSnapshot(ctx context.Context, sessionID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM session_snapshots WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// AppliedSuggestion is one audit record of an AI suggestion committed into
// a document.
type AppliedSuggestion struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	ResumeID     string    `json:"resume_id"`
	SectionID    string    `json:"section_id"`
	OriginalText string    `json:"original_text"`
	EnhancedText string    `json:"enhanced_text"`
	Status       string    `json:"status"`
	AppliedAt    time.Time `json:"applied_at"`
}

// RecordAppliedSuggestion appends an audit record for a committed suggestion.
func (db *DB) RecordAppliedSuggestion(ctx context.Context, rec AppliedSuggestion) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO applied_suggestions (session_id, resume_id, section_id, original_text, enhanced_text, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.SessionID, rec.ResumeID, rec.SectionID, rec.OriginalText, rec.EnhancedText, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to record applied suggestion: %w", err)
	}
	return nil
}

// ListAppliedSuggestions retrieves the audit trail for one session, oldest first.
func (db *DB) ListAppliedSuggestions(ctx context.Context, sessionID uuid.UUID) ([]AppliedSuggestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, resume_id, section_id, original_text, enhanced_text, status, applied_at
		 FROM applied_suggestions WHERE session_id = $1 ORDER BY applied_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied suggestions: %w", err)
	}
	defer rows.Close()

	var records []AppliedSuggestion
	for rows.Next() {
		var rec AppliedSuggestion
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.ResumeID, &rec.SectionID,
			&rec.OriginalText, &rec.EnhancedText, &rec.Status, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied suggestion: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applied suggestions: %w", err)
	}
	return records, nil
}
