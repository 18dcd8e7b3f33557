package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// PlatformMessenger is the platform tag for Facebook Messenger exports.
const PlatformMessenger = "facebook"

// messengerThread mirrors one message_N.json file from a Facebook
// "Download Your Information" export.
type messengerThread struct {
	Participants []messengerParticipant `json:"participants"`
	Messages     []RawMessage           `json:"messages"`
	ThreadPath   string                 `json:"thread_path"`
	Title        string                 `json:"title"`
}

type messengerParticipant struct {
	Name string `json:"name"`
}

// ParseMessengerFile parses a single message_N.json file into a RawConversation.
// Participant names and message content pass through mojibake repair, since
// Facebook exports escape UTF-8 bytes individually and standard JSON decoding
// leaves them mangled.
func ParseMessengerFile(path string) (RawConversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawConversation{}, fmt.Errorf("open: %w", err)
	}

	var thread messengerThread
	if err := json.Unmarshal(data, &thread); err != nil {
		return RawConversation{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	raw := RawConversation{
		ID:       thread.ThreadPath,
		Platform: PlatformMessenger,
	}
	if raw.ID == "" {
		raw.ID = filepath.Base(filepath.Dir(path)) + "/" + filepath.Base(path)
	}

	for _, p := range thread.Participants {
		raw.Participants = append(raw.Participants, RepairMojibake(p.Name))
	}

	raw.Messages = make([]RawMessage, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		raw.Messages = append(raw.Messages, RawMessage{
			SenderName:  RepairMojibake(m.SenderName),
			TimestampMS: m.TimestampMS,
			Content:     RepairMojibake(m.Content),
		})
	}

	return raw, nil
}

// RepairMojibake undoes Facebook's export encoding, which writes each UTF-8
// byte as its own \u00XX escape. After JSON decoding every byte has become a
// separate rune in the Latin-1 range; reinterpreting those runes as bytes
// recovers the original text. Strings that are plain ASCII, contain runes
// above U+00FF, or do not decode to valid UTF-8 are returned unchanged.
func RepairMojibake(s string) string {
	buf := make([]byte, 0, len(s))
	multibyte := false
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		if r > 0x7F {
			multibyte = true
		}
		buf = append(buf, byte(r))
	}
	if !multibyte || !utf8.Valid(buf) {
		return s
	}
	return string(buf)
}
