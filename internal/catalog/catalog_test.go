package catalog

import "testing"

func TestLookupByID(t *testing.T) {
	cat := Default()

	p, ok := cat.LookupByID(5)
	if !ok {
		t.Fatalf("expected product 5")
	}
	if p.Name != "Cocoa Butter" {
		t.Fatalf("unexpected product: %s", p.Name)
	}

	if _, ok := cat.LookupByID(42); ok {
		t.Fatalf("expected no product for id 42")
	}
}

func TestByIndex(t *testing.T) {
	cat := Default()

	p, ok := cat.ByIndex(0)
	if !ok {
		t.Fatalf("expected product at index 0")
	}
	if p.Name != "Roasted Coffee 70% Cocoa" {
		t.Fatalf("unexpected first product: %s", p.Name)
	}

	if _, ok := cat.ByIndex(cat.Size()); ok {
		t.Fatalf("expected out-of-range index to miss")
	}
	if _, ok := cat.ByIndex(-1); ok {
		t.Fatalf("expected negative index to miss")
	}
}

func TestLookupByText_ExactAlias(t *testing.T) {
	cat := Default()

	p, conf, ok := cat.LookupByText("cocoa butter")
	if !ok {
		t.Fatalf("expected match")
	}
	if p.ID != 5 || conf != 1.0 {
		t.Fatalf("got product %d conf %.2f", p.ID, conf)
	}
}

func TestLookupByText_Substring(t *testing.T) {
	cat := Default()

	// "roasted nibs please" contains the alias "roasted nibs"
	p, _, ok := cat.LookupByText("roasted nibs please")
	if !ok {
		t.Fatalf("expected match")
	}
	if p.ID != 7 {
		t.Fatalf("expected pouch (7), got %d", p.ID)
	}
}

func TestLookupByText_NibsOverride(t *testing.T) {
	cat := Default()

	// Bare "nibs" is ambiguous between the bar and the pouch; the override
	// table pins it to the pouch.
	p, conf, ok := cat.LookupByText("nibs")
	if !ok {
		t.Fatalf("expected match")
	}
	if p.ID != 7 {
		t.Fatalf("expected pouch (7), got %d", p.ID)
	}
	if conf != 1.0 {
		t.Fatalf("override should be fully confident, got %.2f", conf)
	}
}

func TestLookupByText_SimilarityAndMiss(t *testing.T) {
	cat := Default()

	// A near-miss spelling should still resolve via the similarity pass.
	if _, _, ok := cat.LookupByText("coca buter"); !ok {
		t.Fatalf("expected fuzzy match for 'coca buter'")
	}

	// Unrelated text must not resolve.
	if p, conf, ok := cat.LookupByText("xyz qwv"); ok {
		t.Fatalf("expected no match, got %s (%.2f)", p.Name, conf)
	}
}

func TestLookupByText_TieBreakLowestID(t *testing.T) {
	// Two products whose aliases score identically: the first catalog entry
	// must win.
	products := []Product{
		{ID: 1, Name: "Alpha", Aliases: []string{"abcde"}},
		{ID: 2, Name: "Beta", Aliases: []string{"abcde"}},
	}
	cat := New(products, nil, nil)

	p, _, ok := cat.LookupByText("abced")
	if !ok {
		t.Fatalf("expected similarity match")
	}
	if p.ID != 1 {
		t.Fatalf("tie must break to lowest id, got %d", p.ID)
	}
}

func TestCharOverlapMatcher(t *testing.T) {
	m := CharOverlapMatcher{Threshold: 0.6}

	if got := m.Score("abc", "abc"); got != 1.0 {
		t.Fatalf("identical strings should score 1.0, got %.2f", got)
	}
	if got := m.Score("", "abc"); got != 0 {
		t.Fatalf("empty segment should score 0, got %.2f", got)
	}
	// Threshold is exclusive: exactly 0.6 is not accepted.
	if m.Accept(0.6) {
		t.Fatalf("score equal to threshold must not be accepted")
	}
	if !m.Accept(0.61) {
		t.Fatalf("score above threshold must be accepted")
	}
}
