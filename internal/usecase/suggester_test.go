package usecase

import (
	"testing"
)

func TestSuggest(t *testing.T) {
	suggester := NewSuggester(mustCatalog(t, storeListings()))

	t.Run("matches names fuzzily, best first", func(t *testing.T) {
		got := suggester.Suggest("pho", 8)
		if len(got) != 3 {
			t.Fatalf("Suggest(pho) = %v, want 3 suggestions", got)
		}
		for _, s := range got[:2] {
			if s.Name != "Phone X" && s.Name != "Phone Z" {
				t.Errorf("top suggestion %s, want a Phone", s.Name)
			}
		}
		if got[2].Name != "Sony Headphones" {
			t.Errorf("last suggestion = %s, want Sony Headphones", got[2].Name)
		}
	})

	t.Run("names are distinct", func(t *testing.T) {
		got := suggester.Suggest("speaker", 8)
		if len(got) != 1 || got[0].Name != "Speaker S" {
			t.Errorf("Suggest(speaker) = %v, want only Speaker S", got)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := suggester.Suggest("  CANON ", 8)
		if len(got) != 1 || got[0].Name != "Canon EOS Camera" {
			t.Errorf("Suggest(CANON) = %v, want Canon EOS Camera", got)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		if got := suggester.Suggest("pho", 1); len(got) != 1 {
			t.Errorf("len = %d, want 1", len(got))
		}
	})

	t.Run("empty results", func(t *testing.T) {
		for _, tc := range []struct {
			prefix string
			limit  int
		}{
			{"", 8},
			{"   ", 8},
			{"zzzz", 8},
			{"pho", 0},
		} {
			got := suggester.Suggest(tc.prefix, tc.limit)
			if got == nil || len(got) != 0 {
				t.Errorf("Suggest(%q, %d) = %v, want empty", tc.prefix, tc.limit, got)
			}
		}
	})
}
