package conversation

import (
	"fmt"
	"time"
)

// Role is the resolved identity of a message sender, distinct from the raw
// platform sender string.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a normalized conversation.
type Message struct {
	Role      Role
	Timestamp time.Time // UTC
	Content   string
}

// Conversation is the canonical unit processed by the pipeline: role-labeled
// messages in non-decreasing timestamp order.
type Conversation struct {
	ID           string
	Platform     string
	CreatedAt    time.Time // timestamp of the first message, UTC
	Participants []Role    // distinct roles observed, in order of first appearance
	Messages     []Message
}

// Participants returns the distinct roles present in msgs, in order of first
// appearance. Callers that rewrite a message slice must recompute the
// conversation's participant list with it, since role transfer or filtering
// can remove a role entirely.
func Participants(msgs []Message) []Role {
	seen := make(map[Role]bool, 2)
	var roles []Role
	for _, m := range msgs {
		if !seen[m.Role] {
			seen[m.Role] = true
			roles = append(roles, m.Role)
		}
	}
	return roles
}

// NormalizationError reports malformed or insufficient raw data for a single
// conversation. It is non-fatal to the batch.
type NormalizationError struct {
	ConversationID string
	Reason         string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.ConversationID, e.Reason)
}

// WireMessage is one entry of the standardized conversation structure handed
// to persistence collaborators.
type WireMessage struct {
	SenderName  string `json:"sender_name"` // "user" or "assistant"
	TimestampMS int64  `json:"timestamp_ms"`
	Content     string `json:"content"`
}

// Standardized is the canonical output form of a conversation.
type Standardized struct {
	ConversationID string        `json:"conversation_id"`
	Platform       string        `json:"platform"`
	CreatedAt      string        `json:"created_at"` // ISO-8601 UTC
	Participants   []string      `json:"participants"`
	Conversation   []WireMessage `json:"conversation"`
}

// Standardize renders the conversation in the standardized output structure.
func (c Conversation) Standardize() Standardized {
	out := Standardized{
		ConversationID: c.ID,
		Platform:       c.Platform,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
		Participants:   make([]string, 0, len(c.Participants)),
		Conversation:   make([]WireMessage, 0, len(c.Messages)),
	}
	for _, r := range c.Participants {
		out.Participants = append(out.Participants, string(r))
	}
	for _, m := range c.Messages {
		out.Conversation = append(out.Conversation, WireMessage{
			SenderName:  string(m.Role),
			TimestampMS: m.Timestamp.UnixMilli(),
			Content:     m.Content,
		})
	}
	return out
}
