package conversation

import (
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/halcyonworks/chatgauge/internal/platform"
)

// Normalizer converts raw platform conversations into the canonical schema.
// It is a pure per-conversation transform; it never touches files.
type Normalizer struct {
	assistantName string // explicit assistant display name; empty enables the heuristic
	logger        *slog.Logger
}

func NewNormalizer(assistantName string, logger *slog.Logger) *Normalizer {
	return &Normalizer{assistantName: assistantName, logger: logger}
}

// Normalize produces one Conversation from a raw record: empty messages are
// dropped, timestamps become UTC instants, messages are sorted (stable, so
// timestamp ties keep original order), and every sender collapses to one of
// the two canonical roles.
func (n *Normalizer) Normalize(raw platform.RawConversation) (*Conversation, error) {
	id := raw.ID
	if id == "" {
		id = strings.Join(raw.Participants, "|")
	}

	msgs := make([]platform.RawMessage, 0, len(raw.Messages))
	for _, m := range raw.Messages {
		if m.Content == "" {
			continue
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil, &NormalizationError{ConversationID: id, Reason: "no messages"}
	}

	senders := distinctSenders(msgs)
	participants := raw.Participants
	if len(participants) == 0 {
		participants = senders
	}
	if len(participants) < 2 {
		return nil, &NormalizationError{ConversationID: id, Reason: "fewer than 2 distinct participants"}
	}
	for _, m := range msgs {
		if m.TimestampMS <= 0 {
			return nil, &NormalizationError{ConversationID: id, Reason: "unparseable timestamp"}
		}
	}

	assistant := n.resolveAssistant(participants, senders, msgs)

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].TimestampMS < msgs[j].TimestampMS
	})

	conv := &Conversation{
		ID:        id,
		Platform:  raw.Platform,
		CreatedAt: time.UnixMilli(msgs[0].TimestampMS).UTC(),
	}

	for _, m := range msgs {
		role := RoleUser
		if m.SenderName == assistant {
			role = RoleAssistant
		}
		conv.Messages = append(conv.Messages, Message{
			Role:      role,
			Timestamp: time.UnixMilli(m.TimestampMS).UTC(),
			Content:   m.Content,
		})
	}
	conv.Participants = Participants(conv.Messages)

	return conv, nil
}

// resolveAssistant picks the raw sender that maps to the assistant role. A
// configured name wins when it matches a participant exactly or partially
// (display names vary across exports); otherwise the heuristic decides.
func (n *Normalizer) resolveAssistant(participants, senders []string, msgs []platform.RawMessage) string {
	if n.assistantName != "" {
		for _, s := range participants {
			if s == n.assistantName {
				return s
			}
		}
		for _, s := range participants {
			if strings.Contains(s, n.assistantName) || strings.Contains(n.assistantName, s) {
				n.logger.Debug("assistant matched by partial name", "sender", s, "configured", n.assistantName)
				return s
			}
		}
		n.logger.Warn("configured assistant name not found among senders, falling back to heuristic",
			"configured", n.assistantName,
		)
	}
	return GuessAssistant(senders, msgs)
}

// GuessAssistant picks the presumed assistant sender when no name is
// configured: the sender with the fewest messages. Ties break to the sender
// with the shorter mean content length, then to the later sender in
// first-appearance order. Business accounts typically send fewer, templated
// messages than the humans they talk to.
func GuessAssistant(senders []string, msgs []platform.RawMessage) string {
	counts := make(map[string]int, len(senders))
	lengths := make(map[string]int, len(senders))
	for _, m := range msgs {
		counts[m.SenderName]++
		lengths[m.SenderName] += utf8.RuneCountInString(m.Content)
	}

	best := senders[0]
	for _, s := range senders[1:] {
		switch {
		case counts[s] < counts[best]:
			best = s
		case counts[s] == counts[best]:
			if meanLen(lengths[s], counts[s]) <= meanLen(lengths[best], counts[best]) {
				best = s
			}
		}
	}
	return best
}

func meanLen(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func distinctSenders(msgs []platform.RawMessage) []string {
	seen := make(map[string]bool)
	var senders []string
	for _, m := range msgs {
		if !seen[m.SenderName] {
			seen[m.SenderName] = true
			senders = append(senders, m.SenderName)
		}
	}
	return senders
}
