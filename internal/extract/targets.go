package extract

import (
	"strings"

	"github.com/halcyonworks/chatgauge/internal/conversation"
)

// ResponseRate is the fraction of user messages that received an assistant
// reply before the next user message or the end of the conversation. Missing
// when the conversation holds no user messages.
func ResponseRate(conv conversation.Conversation) (Value, error) {
	users := 0
	answered := 0
	pendingUser := false
	for _, m := range conv.Messages {
		switch m.Role {
		case conversation.RoleUser:
			users++
			pendingUser = true
		case conversation.RoleAssistant:
			if pendingUser {
				answered++
				pendingUser = false
			}
		}
	}
	if users == 0 {
		return None(), nil
	}
	return Num(float64(answered) / float64(users)), nil
}

// UserEngagement is the fraction of assistant messages that were followed by
// a user message before the next assistant message or the end of the
// conversation. Missing when there are no assistant messages. Every assistant
// message counts toward the denominator, including consecutive ones that
// never got their own reply, so the score reads as "answered share of
// everything the assistant sent" rather than an adjacent-pair ratio.
func UserEngagement(conv conversation.Conversation) (Value, error) {
	assistants := 0
	followed := 0
	pendingAssistant := false
	for _, m := range conv.Messages {
		switch m.Role {
		case conversation.RoleAssistant:
			assistants++
			pendingAssistant = true
		case conversation.RoleUser:
			if pendingAssistant {
				followed++
				pendingAssistant = false
			}
		}
	}
	if assistants == 0 {
		return None(), nil
	}
	return Num(float64(followed) / float64(assistants)), nil
}

// ConversationDuration is the time in seconds between the first and last
// message. Zero-length conversations and single messages report 0.
func ConversationDuration(conv conversation.Conversation) (Value, error) {
	msgs := conv.Messages
	if len(msgs) < 2 {
		return Num(0), nil
	}
	return Num(msgs[len(msgs)-1].Timestamp.Sub(msgs[0].Timestamp).Seconds()), nil
}

// EngagementScore combines message volume with responsiveness into a single
// score in [0, 1]. The volume term saturates around 20 messages; the latency
// term halves at a one hour mean response time and is 1 when response time is
// undefined.
func EngagementScore(conv conversation.Conversation) (Value, error) {
	count := float64(len(conv.Messages))
	volume := count / (count + 20)

	latency := 1.0
	if delays := responseDelays(conv.Messages, 0); len(delays) > 0 {
		latency = 1 / (1 + mean(delays)/3600)
	}
	return Num(clamp01(volume * latency)), nil
}

// Sentiment scores user messages against a small polarity lexicon. The score
// is (positive - negative) / (positive + negative) in [-1, 1]; conversations
// whose user messages carry no lexicon hits report missing.
func Sentiment(conv conversation.Conversation) (Value, error) {
	pos, neg := 0, 0
	for _, m := range conv.Messages {
		if m.Role != conversation.RoleUser {
			continue
		}
		content := strings.ToLower(m.Content)
		pos += lexiconScore(content, positiveLexicon)
		neg += lexiconScore(content, negativeLexicon)
	}
	if pos+neg == 0 {
		return None(), nil
	}
	return Num(float64(pos-neg) / float64(pos+neg)), nil
}

// DealMade labels whether the conversation closed a deal. A negative phrase
// in the last five messages forces 0; otherwise two or more messages
// containing deal phrases yield 1.
func DealMade(conv conversation.Conversation) (Value, error) {
	msgs := conv.Messages
	tail := msgs
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for _, m := range tail {
		if matchesAnyPhrase(strings.ToLower(m.Content), noDealPhrases) {
			return Num(0), nil
		}
	}
	hits := 0
	for _, m := range msgs {
		if matchesAnyPhrase(strings.ToLower(m.Content), dealPhrases) {
			hits++
		}
	}
	if hits >= 2 {
		return Num(1), nil
	}
	return Num(0), nil
}

// Resolved is 1 when the assistant had the last word, 0 otherwise. Empty
// conversations report missing.
func Resolved(conv conversation.Conversation) (Value, error) {
	msgs := conv.Messages
	if len(msgs) == 0 {
		return None(), nil
	}
	if msgs[len(msgs)-1].Role == conversation.RoleAssistant {
		return Num(1), nil
	}
	return Num(0), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
