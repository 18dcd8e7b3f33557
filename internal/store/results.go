package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/halcyonworks/chatgauge/internal/pipeline"
)

// ResultRow is one stored extraction row. Features and Targets stay as raw
// JSON so the API can serve them without re-decoding into typed values.
type ResultRow struct {
	ID             uuid.UUID       `json:"id"`
	RunID          uuid.UUID       `json:"run_id"`
	ConversationID string          `json:"conversation_id"`
	Features       json.RawMessage `json:"features"`
	Targets        json.RawMessage `json:"targets"`
	CreatedAt      time.Time       `json:"created_at"`
}

// WriteResult inserts one extraction result under the given run.
func (s *Store) WriteResult(ctx context.Context, runID uuid.UUID, res pipeline.Result) (uuid.UUID, error) {
	features, err := json.Marshal(res.Features)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal features for %s: %w", res.ConversationID, err)
	}
	targets, err := json.Marshal(res.Targets)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal targets for %s: %w", res.ConversationID, err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO extraction_results (id, run_id, conversation_id, features, targets, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, runID, res.ConversationID, features, targets,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert result for %s: %w", res.ConversationID, err)
	}
	return id, nil
}

// ListResults returns the most recent extraction rows, newest first.
func (s *Store) ListResults(ctx context.Context, limit int) ([]ResultRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_id, conversation_id, features, targets, created_at
		FROM extraction_results
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.ID, &r.RunID, &r.ConversationID, &r.Features, &r.Targets, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetResult returns the latest extraction row for one conversation, or nil
// if none has been stored.
func (s *Store) GetResult(ctx context.Context, conversationID string) (*ResultRow, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, run_id, conversation_id, features, targets, created_at
		FROM extraction_results
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, conversationID)

	var r ResultRow
	err := row.Scan(&r.ID, &r.RunID, &r.ConversationID, &r.Features, &r.Targets, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result for %s: %w", conversationID, err)
	}
	return &r, nil
}
