package conversation

import (
	"strings"
	"unicode/utf8"
)

// Dedup scope values.
const (
	DedupOff         = "off"
	DedupConsecutive = "consecutive"
	DedupGlobal      = "global"
)

// Dedup normalization values. "Exact duplicate" is decided after applying the
// selected normalization to the content.
const (
	NormalizeNone      = "none"
	NormalizeCase      = "case"
	NormalizeSpace     = "space"
	NormalizeCaseSpace = "case_space"
)

// DedupPolicy selects optional duplicate-message removal.
type DedupPolicy struct {
	Scope     string // off, consecutive, global
	Normalize string // none, case, space, case_space
}

// Filter removes messages matching exclusion rules prior to feature
// computation. It runs after role resolution; the two mechanisms are
// independent even when an exclusion phrase doubles as a transfer trigger.
type Filter struct {
	ExcludePhrases []string
	MinLength      int // characters; 0 disables the lower bound
	MaxLength      int // characters; 0 disables the upper bound
	Dedup          DedupPolicy
}

// Apply returns the surviving messages in their original relative order.
// Removing every message is a valid outcome, reported to the caller by the
// empty slice rather than an error.
func (f *Filter) Apply(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	seen := make(map[string]bool)
	lastKey := ""
	haveLast := false

	for _, m := range msgs {
		if f.excluded(m.Content) {
			continue
		}

		if f.Dedup.Scope == DedupConsecutive || f.Dedup.Scope == DedupGlobal {
			key := dedupKey(m.Content, f.Dedup.Normalize)
			switch f.Dedup.Scope {
			case DedupConsecutive:
				if haveLast && key == lastKey {
					continue
				}
				lastKey, haveLast = key, true
			case DedupGlobal:
				if seen[key] {
					continue
				}
				seen[key] = true
			}
		}

		out = append(out, m)
	}

	return out
}

func (f *Filter) excluded(content string) bool {
	n := utf8.RuneCountInString(content)
	if f.MinLength > 0 && n < f.MinLength {
		return true
	}
	if f.MaxLength > 0 && n > f.MaxLength {
		return true
	}
	return containsAny(content, f.ExcludePhrases)
}

func dedupKey(content, normalize string) string {
	switch normalize {
	case NormalizeCase:
		return strings.ToLower(content)
	case NormalizeSpace:
		return strings.Join(strings.Fields(content), " ")
	case NormalizeCaseSpace:
		return strings.ToLower(strings.Join(strings.Fields(content), " "))
	default:
		return content
	}
}
