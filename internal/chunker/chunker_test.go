package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	c := New(1000, 150)
	pieces := c.Split("Hello world. This is a short document.")
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if pieces[0].Text != "Hello world. This is a short document." {
		t.Errorf("unexpected text: %q", pieces[0].Text)
	}
	if pieces[0].StartLine != 1 || pieces[0].EndLine != 1 {
		t.Errorf("unexpected lines: %d-%d", pieces[0].StartLine, pieces[0].EndLine)
	}
}

func TestSplitEmpty(t *testing.T) {
	c := New(100, 20)
	if pieces := c.Split(""); pieces != nil {
		t.Errorf("expected nil for empty input, got %v", pieces)
	}
	if pieces := c.Split("   \n\n  "); len(pieces) != 0 {
		t.Errorf("expected no pieces for whitespace input, got %d", len(pieces))
	}
}

func TestSplitCoverage(t *testing.T) {
	// The union of covered rune ranges must reconstruct the original text
	// with no gaps.
	tests := []struct {
		name string
		text string
	}{
		{"plain prose", strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)},
		{"paragraphs", strings.Repeat("First paragraph with some content here.\n\nSecond paragraph follows.\n\n", 30)},
		{"no boundaries", strings.Repeat("abcdefghij", 55)},
		{"unicode", strings.Repeat("Привет мир. Это тестовый документ для проверки. ", 40)},
	}

	c := New(200, 40)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pieces := c.Split(tt.text)
			if len(pieces) == 0 {
				t.Fatal("no pieces produced")
			}
			runes := []rune(tt.text)
			covered := make([]bool, len(runes))
			for _, p := range pieces {
				if p.Start < 0 || p.End > len(runes) || p.Start >= p.End {
					t.Fatalf("bad range %d-%d for %d runes", p.Start, p.End, len(runes))
				}
				for i := p.Start; i < p.End; i++ {
					covered[i] = true
				}
			}
			for i, ok := range covered {
				if !ok {
					t.Fatalf("rune %d (%q) not covered by any piece", i, string(runes[i]))
				}
			}
		})
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	// A sentence terminator past the midpoint should end the chunk.
	text := strings.Repeat("x", 70) + ". " + strings.Repeat("y", 200)
	c := New(100, 20)
	pieces := c.Split(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	if !strings.HasSuffix(pieces[0].Text, ".") {
		t.Errorf("first piece should end at the sentence terminator, got %q", pieces[0].Text[len(pieces[0].Text)-10:])
	}
}

func TestSplitOverlapOnHardCut(t *testing.T) {
	// Without any boundary, consecutive windows must overlap by the
	// configured amount.
	text := strings.Repeat("a", 500)
	c := New(100, 25)
	pieces := c.Split(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i := 1; i < len(pieces); i++ {
		gap := pieces[i].Start - pieces[i-1].End
		if gap != -25 {
			t.Errorf("piece %d: expected 25-rune overlap, got gap %d", i, gap)
		}
	}
}

func TestSplitMakesProgress(t *testing.T) {
	// Degenerate config must still terminate.
	c := New(10, 9)
	pieces := c.Split(strings.Repeat("z", 100))
	if len(pieces) == 0 {
		t.Fatal("no pieces produced")
	}
	for i := 1; i < len(pieces); i++ {
		if pieces[i].Start <= pieces[i-1].Start {
			t.Fatalf("piece %d did not advance: %d -> %d", i, pieces[i-1].Start, pieces[i].Start)
		}
	}
}

func TestSplitLineNumbers(t *testing.T) {
	text := "line one\nline two\n\nline four is part of the next paragraph and continues on."
	c := New(30, 5)
	pieces := c.Split(text)
	if len(pieces) == 0 {
		t.Fatal("no pieces produced")
	}
	if pieces[0].StartLine != 1 {
		t.Errorf("first piece should start at line 1, got %d", pieces[0].StartLine)
	}
	last := pieces[len(pieces)-1]
	if last.EndLine != 4 {
		t.Errorf("last piece should end at line 4, got %d", last.EndLine)
	}
}
