package conversation

import (
	"log/slog"
	"strings"
)

// RoleRules reassigns message roles based on content phrase matching. Rules
// match on content only, never on the current role, so applying the same
// rules twice yields the same result.
//
// AssistantToUser phrases flip a message to the user role (typical for
// auto-reply markers that a business account forwards verbatim);
// UserToAssistant is the symmetric direction. When a message matches phrases
// in both directions, AssistantToUser wins and the conflict is logged.
type RoleRules struct {
	AssistantToUser []string
	UserToAssistant []string

	logger *slog.Logger
}

func NewRoleRules(assistantToUser, userToAssistant []string, logger *slog.Logger) *RoleRules {
	return &RoleRules{
		AssistantToUser: assistantToUser,
		UserToAssistant: userToAssistant,
		logger:          logger,
	}
}

// Apply returns a copy of msgs with rule-driven role reassignments. Matching
// is case-sensitive substring containment over the raw content.
func (r *RoleRules) Apply(msgs []Message) []Message {
	if len(r.AssistantToUser) == 0 && len(r.UserToAssistant) == 0 {
		return msgs
	}

	out := make([]Message, len(msgs))
	copy(out, msgs)

	for i := range out {
		toUser := containsAny(out[i].Content, r.AssistantToUser)
		toAssistant := containsAny(out[i].Content, r.UserToAssistant)

		switch {
		case toUser && toAssistant:
			r.logger.Warn("message matches role-transfer rules in both directions, assistant_to_user wins",
				"content_len", len(out[i].Content),
			)
			out[i].Role = RoleUser
		case toUser:
			out[i].Role = RoleUser
		case toAssistant:
			out[i].Role = RoleAssistant
		}
	}

	return out
}

func containsAny(content string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(content, p) {
			return true
		}
	}
	return false
}
