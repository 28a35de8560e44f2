package fingerprint

import (
	"testing"

	"github.com/conorfennell/recall/internal/domain"
)

func TestNormalize(t *testing.T) {
	in := "  What\tis   HTMX? \r\n"
	expected := "what is htmx?"
	if got := Normalize(in); got != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, got)
	}
}

func TestKey(t *testing.T) {
	t.Run("key is deterministic", func(t *testing.T) {
		if Key(domain.KindBasic, "Test") != Key(domain.KindBasic, "Test") {
			t.Error("Expected keys for identical cards to be the same")
		}
	})

	t.Run("case and whitespace differences collide", func(t *testing.T) {
		a := Key(domain.KindBasic, "  what is go? ")
		b := Key(domain.KindBasic, "What  Is\nGo?")
		if a != b {
			t.Error("Expected keys to match after normalization, but they differed")
		}
	})

	t.Run("different front text differs", func(t *testing.T) {
		if Key(domain.KindBasic, "Card 1") == Key(domain.KindBasic, "Card 2") {
			t.Error("Expected keys for different cards to differ")
		}
	})

	t.Run("kind is part of the key", func(t *testing.T) {
		if Key(domain.KindBasic, "same front") == Key(domain.KindCloze, "same front") {
			t.Error("Expected the same front under different kinds to differ")
		}
	})
}
