package token

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	tok, err := NewRandomGenerator().Generate()
	if err != nil {
		t.Fatal(err)
	}
	if len(tok) != 2*DefaultBytes {
		t.Errorf("expected %d hex chars, got %d", 2*DefaultBytes, len(tok))
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	g := NewRandomGenerator()
	t1, _ := g.Generate()
	t2, _ := g.Generate()
	if t1 == t2 {
		t.Error("consecutive tokens should differ")
	}
}

func TestGenerate_NoSeparators(t *testing.T) {
	tok, _ := NewRandomGenerator().Generate()
	if strings.ContainsAny(tok, " \n") {
		t.Errorf("token %q would break the control line", tok)
	}
	if strings.Trim(tok, "0123456789abcdef") != "" {
		t.Errorf("non-hex token %q", tok)
	}
}

func TestSizedGenerator(t *testing.T) {
	g, err := newSizedGenerator(32)
	if err != nil {
		t.Fatal(err)
	}
	tok, _ := g.Generate()
	if len(tok) != 64 {
		t.Errorf("len = %d, want 64", len(tok))
	}
	if _, err := newSizedGenerator(4); err == nil {
		t.Error("expected error for short tokens")
	}
}
