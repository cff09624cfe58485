package chunker

import (
	"strings"
)

const (
	// DefaultChunkSize is the target chunk length in code points.
	DefaultChunkSize = 1000
	// DefaultOverlap is how far the next window backs up when a chunk is cut
	// mid-sentence.
	DefaultOverlap = 150
)

// Piece is a bounded slice of a document produced by the sliding window.
// Start and End are rune offsets into the original text; StartLine and
// EndLine are 1-indexed line numbers used for citations.
type Piece struct {
	Text      string
	Start     int
	End       int
	StartLine int
	EndLine   int
}

// Chunker splits document text into overlapping windows. Windows prefer to
// end on a paragraph break or sentence terminator so chunks stay coherent.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker with the given window size and overlap, both in
// runes. Non-positive values fall back to the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split chunks text into pieces. Whitespace-only windows are discarded.
func (c *Chunker) Split(text string) []Piece {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var pieces []Piece
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			pieces = appendPiece(pieces, runes, start, len(runes))
			break
		}

		var next int
		if cut := findBreak(runes, start, end); cut > 0 {
			// A natural boundary past the window midpoint: cut there and
			// continue from it.
			end = cut
			next = cut
		} else {
			// Hard cut at the window size; back up so the next window
			// overlaps and no sentence is lost across the seam.
			next = end - c.overlap
		}
		pieces = appendPiece(pieces, runes, start, end)
		if next <= start {
			// Guarantee progress even with degenerate size/overlap values.
			next = start + 1
		}
		start = next
	}
	return pieces
}

// findBreak scans backward from end for the nearest paragraph break or
// sentence terminator. It returns 0 when no boundary exists past the
// midpoint of the window.
func findBreak(runes []rune, start, end int) int {
	mid := start + (end-start)/2
	for i := end; i > mid; i-- {
		// Paragraph break: cut after the blank line.
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i
		}
		// Sentence terminator followed by whitespace (or window end).
		if isTerminator(runes[i-1]) {
			if i == len(runes) || runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
				return i
			}
		}
	}
	return 0
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendPiece(pieces []Piece, runes []rune, start, end int) []Piece {
	text := strings.TrimSpace(string(runes[start:end]))
	if text == "" {
		return pieces
	}
	startLine := 1 + countNewlines(runes, 0, start)
	endLine := startLine + countNewlines(runes, start, end)
	return append(pieces, Piece{
		Text:      text,
		Start:     start,
		End:       end,
		StartLine: startLine,
		EndLine:   endLine,
	})
}

func countNewlines(runes []rune, from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		if runes[i] == '\n' {
			n++
		}
	}
	return n
}
