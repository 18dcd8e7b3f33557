package platform

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const sampleThread = `{
  "participants": [{"name": "Jamie"}, {"name": "Acme Shop"}],
  "messages": [
    {"sender_name": "Acme Shop", "timestamp_ms": 1609459260000, "content": "Hi! How can we help?"},
    {"sender_name": "Jamie", "timestamp_ms": 1609459200000, "content": "Is the bike still available?"}
  ],
  "thread_path": "inbox/jamie_abc123",
  "title": "Jamie"
}`

func writeThread(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestParseMessengerFile(t *testing.T) {
	dir := t.TempDir()
	path := writeThread(t, dir, "message_1.json", sampleThread)

	raw, err := ParseMessengerFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.ID != "inbox/jamie_abc123" {
		t.Errorf("expected thread_path as ID, got %q", raw.ID)
	}
	if raw.Platform != PlatformMessenger {
		t.Errorf("expected platform %q, got %q", PlatformMessenger, raw.Platform)
	}
	if len(raw.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(raw.Participants))
	}
	if len(raw.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(raw.Messages))
	}
	// Parsing preserves file order; sorting happens during normalization.
	if raw.Messages[0].SenderName != "Acme Shop" {
		t.Errorf("expected first message from Acme Shop, got %q", raw.Messages[0].SenderName)
	}
}

func TestParseMessengerFileIDFallback(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jamie_abc123")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}
	path := writeThread(t, dir, "message_1.json",
		`{"participants": [{"name": "A"}], "messages": []}`)

	raw, err := ParseMessengerFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.ID != "jamie_abc123/message_1.json" {
		t.Errorf("expected directory-based fallback ID, got %q", raw.ID)
	}
}

func TestParseMessengerFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeThread(t, dir, "message_1.json", `{"participants": [`)

	if _, err := ParseMessengerFile(path); err == nil {
		t.Fatal("expected parse error for malformed JSON")
	}
}

func TestRepairMojibake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain ascii untouched",
			in:   "hello world",
			want: "hello world",
		},
		{
			// "você" exported byte-by-byte: Ãª decodes to Ã and ª,
			// whose byte values 0xC3 0xAA form ê in UTF-8.
			name: "double encoded utf8 repaired",
			in:   "vocÃª",
			want: "você",
		},
		{
			name: "genuine latin1 text left alone when not valid utf8",
			in:   "café", // é alone is not a valid UTF-8 sequence start
			want: "café",
		},
		{
			name: "text with runes above U+00FF untouched",
			in:   "привет",
			want: "привет",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RepairMojibake(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLoadInboxSkipsCorruptFiles(t *testing.T) {
	root := t.TempDir()

	good := filepath.Join(root, "inbox", "jamie_abc123")
	if err := os.MkdirAll(good, 0o755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}
	writeThread(t, good, "message_1.json", sampleThread)
	writeThread(t, good, "message_2.json", "not json at all")
	writeThread(t, good, "photo_metadata.json", "{}") // not a message file

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conversations, err := LoadInbox(root, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}
	if conversations[0].ID != "inbox/jamie_abc123" {
		t.Errorf("unexpected conversation ID %q", conversations[0].ID)
	}
}
