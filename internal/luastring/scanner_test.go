package luastring

import (
	"testing"
)

func TestScanQuotedLiterals(t *testing.T) {
	src := `print("hi") local x = 'world'`
	matches, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if string(matches[0].Decoded) != "hi" {
		t.Fatalf("first literal decoded = %q, want %q", matches[0].Decoded, "hi")
	}
	if string(matches[1].Decoded) != "world" {
		t.Fatalf("second literal decoded = %q, want %q", matches[1].Decoded, "world")
	}
}

func TestScanLongBracketLiteral(t *testing.T) {
	src := "local s = [==[ has ]] inside ]==]"
	matches, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	want := " has ]] inside "
	if string(matches[0].Decoded) != want {
		t.Fatalf("decoded = %q, want %q", matches[0].Decoded, want)
	}
}

func TestScanIgnoresQuotesInsideLongBracket(t *testing.T) {
	src := `local s = [[ "embedded" string ]]`
	matches, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected the long-bracket literal to absorb the embedded quotes, got %d matches", len(matches))
	}
}

func TestScanSentinelMarksAndStrips(t *testing.T) {
	src := `local x = "[STR_ENCRYPT]secret"`
	matches, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if !matches[0].Marked {
		t.Fatal("expected literal to be marked")
	}
	if string(matches[0].Decoded) != "secret" {
		t.Fatalf("decoded = %q, want %q (sentinel stripped)", matches[0].Decoded, "secret")
	}
}

func TestScanMalformedEscapeErrors(t *testing.T) {
	src := `local x = "\256"`
	if _, err := Scan(src); err == nil {
		t.Fatal("expected error for malformed numeric escape")
	}
}

func TestScanPreservesOffsets(t *testing.T) {
	src := `a("one") b("two")`
	matches, err := Scan(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if src[m.Start] != '"' || src[m.End-1] != '"' {
			t.Fatalf("match [%d,%d) does not span quotes: %q", m.Start, m.End, src[m.Start:m.End])
		}
	}
}
