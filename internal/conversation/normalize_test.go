package conversation

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/halcyonworks/chatgauge/internal/platform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawConv(id string, participants []string, msgs ...platform.RawMessage) platform.RawConversation {
	return platform.RawConversation{
		ID:           id,
		Platform:     platform.PlatformMessenger,
		Participants: participants,
		Messages:     msgs,
	}
}

func TestNormalizeSortsAndMapsRoles(t *testing.T) {
	n := NewNormalizer("Acme Support", testLogger())

	raw := rawConv("t1", []string{"Jamie", "Acme Support"},
		platform.RawMessage{SenderName: "Acme Support", TimestampMS: 2000, Content: "hello, how can we help?"},
		platform.RawMessage{SenderName: "Jamie", TimestampMS: 1000, Content: "hi there"},
		platform.RawMessage{SenderName: "Jamie", TimestampMS: 3000, Content: "my order is late"},
	)

	conv, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conv.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv.Messages))
	}
	wantRoles := []Role{RoleUser, RoleAssistant, RoleUser}
	for i, want := range wantRoles {
		if conv.Messages[i].Role != want {
			t.Errorf("message %d: expected role %s, got %s", i, want, conv.Messages[i].Role)
		}
	}
	if !conv.Messages[0].Timestamp.Before(conv.Messages[1].Timestamp) {
		t.Errorf("messages not sorted by timestamp")
	}
	if conv.CreatedAt != time.UnixMilli(1000).UTC() {
		t.Errorf("expected created_at %v, got %v", time.UnixMilli(1000).UTC(), conv.CreatedAt)
	}
	if len(conv.Participants) != 2 || conv.Participants[0] != RoleUser || conv.Participants[1] != RoleAssistant {
		t.Errorf("expected participants [user assistant], got %v", conv.Participants)
	}
}

func TestNormalizeDropsEmptyMessages(t *testing.T) {
	n := NewNormalizer("Bot", testLogger())

	raw := rawConv("t2", []string{"Ann", "Bot"},
		platform.RawMessage{SenderName: "Ann", TimestampMS: 1000, Content: "hey"},
		platform.RawMessage{SenderName: "Bot", TimestampMS: 2000, Content: ""},
		platform.RawMessage{SenderName: "Bot", TimestampMS: 3000, Content: "hey yourself"},
	)

	conv, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Errorf("expected 2 messages after dropping empties, got %d", len(conv.Messages))
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := NewNormalizer("", testLogger())

	cases := []struct {
		name string
		raw  platform.RawConversation
	}{
		{
			name: "no messages",
			raw:  rawConv("e1", []string{"A", "B"}),
		},
		{
			name: "all messages empty",
			raw: rawConv("e2", []string{"A", "B"},
				platform.RawMessage{SenderName: "A", TimestampMS: 1000, Content: ""},
			),
		},
		{
			name: "single participant",
			raw: rawConv("e3", nil,
				platform.RawMessage{SenderName: "A", TimestampMS: 1000, Content: "monologue"},
				platform.RawMessage{SenderName: "A", TimestampMS: 2000, Content: "still me"},
			),
		},
		{
			name: "bad timestamp",
			raw: rawConv("e4", []string{"A", "B"},
				platform.RawMessage{SenderName: "A", TimestampMS: 0, Content: "when?"},
				platform.RawMessage{SenderName: "B", TimestampMS: 1000, Content: "now"},
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.Normalize(tc.raw)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var nErr *NormalizationError
			if !errors.As(err, &nErr) {
				t.Errorf("expected NormalizationError, got %T", err)
			}
		})
	}
}

func TestNormalizeTwoPartyWithSilentParticipant(t *testing.T) {
	n := NewNormalizer("Shop", testLogger())

	// The second participant never wrote anything but the export still
	// lists them; this is a valid two-party conversation.
	raw := rawConv("t3", []string{"Kim", "Shop"},
		platform.RawMessage{SenderName: "Kim", TimestampMS: 1000, Content: "anyone there?"},
		platform.RawMessage{SenderName: "Kim", TimestampMS: 2000, Content: "hello?"},
	)

	conv, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, m := range conv.Messages {
		if m.Role != RoleUser {
			t.Errorf("message %d: expected role user, got %s", i, m.Role)
		}
	}
}

func TestGuessAssistantFewestMessages(t *testing.T) {
	msgs := []platform.RawMessage{
		{SenderName: "Customer", TimestampMS: 1000, Content: "I have a long question about my recent order"},
		{SenderName: "Customer", TimestampMS: 2000, Content: "it never arrived"},
		{SenderName: "Customer", TimestampMS: 4000, Content: "please help"},
		{SenderName: "Shop", TimestampMS: 3000, Content: "Looking into it."},
	}
	got := GuessAssistant([]string{"Customer", "Shop"}, msgs)
	if got != "Shop" {
		t.Errorf("expected Shop, got %q", got)
	}
}

func TestGuessAssistantTieBreaksOnShorterMessages(t *testing.T) {
	msgs := []platform.RawMessage{
		{SenderName: "Chatty", TimestampMS: 1000, Content: "a very long winded message indeed"},
		{SenderName: "Terse", TimestampMS: 2000, Content: "ok"},
	}
	got := GuessAssistant([]string{"Chatty", "Terse"}, msgs)
	if got != "Terse" {
		t.Errorf("expected Terse, got %q", got)
	}
}

func TestNormalizeFallsBackWhenConfiguredNameUnknown(t *testing.T) {
	n := NewNormalizer("Nobody Like That", testLogger())

	raw := rawConv("t4", []string{"Customer", "Shop"},
		platform.RawMessage{SenderName: "Customer", TimestampMS: 1000, Content: "first long message from the customer"},
		platform.RawMessage{SenderName: "Customer", TimestampMS: 2000, Content: "second long message from the customer"},
		platform.RawMessage{SenderName: "Shop", TimestampMS: 3000, Content: "Thanks."},
	)

	conv, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Messages[2].Role != RoleAssistant {
		t.Errorf("expected heuristic to pick Shop as assistant, got role %s", conv.Messages[2].Role)
	}
}
