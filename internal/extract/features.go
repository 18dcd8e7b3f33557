package extract

import (
	"time"
	"unicode/utf8"

	"github.com/halcyonworks/chatgauge/internal/conversation"
)

// MessageCount counts messages surviving the filter.
func MessageCount(conv conversation.Conversation) (Value, error) {
	return Num(float64(len(conv.Messages))), nil
}

// UserMessageCount counts user-role messages.
func UserMessageCount(conv conversation.Conversation) (Value, error) {
	return Num(float64(countRole(conv.Messages, conversation.RoleUser))), nil
}

// AssistantMessageCount counts assistant-role messages.
func AssistantMessageCount(conv conversation.Conversation) (Value, error) {
	return Num(float64(countRole(conv.Messages, conversation.RoleAssistant))), nil
}

// MessageLength is the mean content length in characters across all messages,
// 0 when the conversation is empty.
func MessageLength(conv conversation.Conversation) (Value, error) {
	if len(conv.Messages) == 0 {
		return Num(0), nil
	}
	total := 0
	for _, m := range conv.Messages {
		total += utf8.RuneCountInString(m.Content)
	}
	return Num(float64(total) / float64(len(conv.Messages))), nil
}

// ResponseTime is the mean delay in seconds between a user message and the
// assistant message that directly follows it. Adjacent same-role pairs
// contribute no sample; conversations with no qualifying pair report missing.
func ResponseTime(conv conversation.Conversation) (Value, error) {
	delays := responseDelays(conv.Messages, 0)
	if len(delays) == 0 {
		return None(), nil
	}
	return Num(mean(delays)), nil
}

// InitialLatency is ResponseTime restricted to the first n qualifying
// user→assistant pairs.
func InitialLatency(n int) ComputeFunc {
	return func(conv conversation.Conversation) (Value, error) {
		delays := responseDelays(conv.Messages, n)
		if len(delays) == 0 {
			return None(), nil
		}
		return Num(mean(delays)), nil
	}
}

// UserReplyLen reports whether, within the first n assistant replies, at
// least one subsequent user message exceeds minLen characters.
func UserReplyLen(n, minLen int) ComputeFunc {
	return func(conv conversation.Conversation) (Value, error) {
		replies := 0
		for _, m := range conv.Messages {
			switch m.Role {
			case conversation.RoleAssistant:
				replies++
				if replies > n {
					return Label("false"), nil
				}
			case conversation.RoleUser:
				if replies >= 1 && utf8.RuneCountInString(m.Content) > minLen {
					return Label("true"), nil
				}
			}
		}
		return Label("false"), nil
	}
}

// Throughput buckets.
const (
	BucketDay    = 24 * time.Hour
	BucketHour   = time.Hour
	BucketTenMin = 10 * time.Minute
)

// Throughput is mean messages per bucket over the conversation's span,
// computed as count / max(1, span_in_buckets). A conversation that fits in a
// single bucket divides by one; an empty conversation reports missing.
func Throughput(bucket time.Duration) ComputeFunc {
	return func(conv conversation.Conversation) (Value, error) {
		msgs := conv.Messages
		if len(msgs) == 0 {
			return None(), nil
		}
		span := msgs[len(msgs)-1].Timestamp.Sub(msgs[0].Timestamp)
		buckets := int(span / bucket)
		if buckets < 1 {
			buckets = 1
		}
		return Num(float64(len(msgs)) / float64(buckets)), nil
	}
}

// responseDelays collects delays for adjacent user→assistant pairs, in
// seconds. limit > 0 caps the number of pairs taken from the front.
func responseDelays(msgs []conversation.Message, limit int) []float64 {
	var delays []float64
	for i := 1; i < len(msgs); i++ {
		if limit > 0 && len(delays) >= limit {
			break
		}
		if msgs[i-1].Role == conversation.RoleUser && msgs[i].Role == conversation.RoleAssistant {
			delays = append(delays, msgs[i].Timestamp.Sub(msgs[i-1].Timestamp).Seconds())
		}
	}
	return delays
}

func countRole(msgs []conversation.Message, role conversation.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}

func mean(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total / float64(len(vals))
}
