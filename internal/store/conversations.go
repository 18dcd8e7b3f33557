package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/halcyonworks/chatgauge/internal/conversation"
)

// WriteConversation upserts a normalized conversation in its standardized
// wire form. Re-running a pipeline over the same export replaces the stored
// copy instead of duplicating it.
func (s *Store) WriteConversation(ctx context.Context, conv conversation.Conversation) error {
	std := conv.Standardize()
	payload, err := json.Marshal(std)
	if err != nil {
		return fmt.Errorf("marshal conversation %s: %w", conv.ID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO conversations (conversation_id, platform, created_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (conversation_id) DO UPDATE
		SET platform = EXCLUDED.platform, created_at = EXCLUDED.created_at, payload = EXCLUDED.payload`,
		conv.ID, conv.Platform, conv.CreatedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("insert conversation %s: %w", conv.ID, err)
	}
	return nil
}
