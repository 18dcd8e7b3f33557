package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverInbox walks a Messenger inbox directory and returns the paths of
// all message_N.json files, one or more per conversation folder.
func DiscoverInbox(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		name := info.Name()
		if !info.IsDir() && strings.HasPrefix(name, "message_") && strings.HasSuffix(name, ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// LoadInbox discovers and parses every conversation file under root.
// Files that fail to parse are logged and skipped; a single corrupt export
// file never fails the batch.
func LoadInbox(root string, logger *slog.Logger) ([]RawConversation, error) {
	files, err := DiscoverInbox(root)
	if err != nil {
		return nil, err
	}

	var conversations []RawConversation
	for _, path := range files {
		raw, err := ParseMessengerFile(path)
		if err != nil {
			logger.Warn("failed to parse export file", "path", path, "error", err)
			continue
		}
		conversations = append(conversations, raw)
	}

	logger.Info("export files loaded",
		"files", len(files),
		"conversations", len(conversations),
	)
	return conversations, nil
}
