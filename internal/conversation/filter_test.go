package conversation

import "testing"

func TestFilterExcludePhrases(t *testing.T) {
	f := &Filter{ExcludePhrases: []string{"sent an attachment", "liked a message"}}

	msgs := []Message{
		msg(RoleUser, "Jamie sent an attachment."),
		msg(RoleUser, "actual question about pricing"),
		msg(RoleAssistant, "Shop liked a message"),
	}

	out := f.Apply(msgs)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving message, got %d", len(out))
	}
	if out[0].Content != "actual question about pricing" {
		t.Errorf("wrong message survived: %q", out[0].Content)
	}
}

func TestFilterLengthBounds(t *testing.T) {
	f := &Filter{MinLength: 3, MaxLength: 10}

	msgs := []Message{
		msg(RoleUser, "ok"),
		msg(RoleUser, "just right"),
		msg(RoleUser, "this one is far too long"),
	}

	out := f.Apply(msgs)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving message, got %d", len(out))
	}
	if out[0].Content != "just right" {
		t.Errorf("wrong message survived: %q", out[0].Content)
	}
}

func TestFilterLengthCountsRunes(t *testing.T) {
	f := &Filter{MaxLength: 4}

	out := f.Apply([]Message{msg(RoleUser, "héllo")}) // 5 runes, more bytes
	if len(out) != 0 {
		t.Errorf("expected 5-rune message excluded by MaxLength 4")
	}

	out = f.Apply([]Message{msg(RoleUser, "héll")})
	if len(out) != 1 {
		t.Errorf("expected 4-rune message to survive MaxLength 4")
	}
}

func TestFilterDedupConsecutive(t *testing.T) {
	f := &Filter{Dedup: DedupPolicy{Scope: DedupConsecutive, Normalize: NormalizeNone}}

	msgs := []Message{
		msg(RoleUser, "hello"),
		msg(RoleUser, "hello"),
		msg(RoleAssistant, "hi"),
		msg(RoleUser, "hello"),
	}

	out := f.Apply(msgs)
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	if out[2].Content != "hello" {
		t.Errorf("non-consecutive duplicate should survive, got %q", out[2].Content)
	}
}

func TestFilterDedupGlobalWithNormalization(t *testing.T) {
	f := &Filter{Dedup: DedupPolicy{Scope: DedupGlobal, Normalize: NormalizeCaseSpace}}

	msgs := []Message{
		msg(RoleUser, "Hello  World"),
		msg(RoleAssistant, "something else"),
		msg(RoleUser, "hello world"),
	}

	out := f.Apply(msgs)
	if len(out) != 2 {
		t.Fatalf("expected 2 messages after global dedup, got %d", len(out))
	}
}

func TestFilterPreservesOrderAndAllowsEmptyResult(t *testing.T) {
	f := &Filter{ExcludePhrases: []string{"drop"}}

	msgs := []Message{
		msg(RoleUser, "drop one"),
		msg(RoleUser, "drop two"),
	}
	out := f.Apply(msgs)
	if len(out) != 0 {
		t.Errorf("expected empty result, got %d messages", len(out))
	}

	keep := []Message{
		msg(RoleUser, "first"),
		msg(RoleAssistant, "second"),
		msg(RoleUser, "third"),
	}
	out = f.Apply(keep)
	for i, want := range []string{"first", "second", "third"} {
		if out[i].Content != want {
			t.Errorf("position %d: expected %q, got %q", i, want, out[i].Content)
		}
	}
}

func TestFilterZeroBoundsDisable(t *testing.T) {
	f := &Filter{}

	msgs := []Message{msg(RoleUser, ""), msg(RoleUser, "any length at all works here just fine")}
	out := f.Apply(msgs)
	if len(out) != 2 {
		t.Errorf("expected no filtering with zero config, got %d of 2", len(out))
	}
}
