// Package textproc provides pure text processing primitives used by the
// document pipeline: normalization and sentence splitting. Functions in this
// package are deterministic and hold no state, so they are safe to call
// concurrently from multiple in-flight requests.
package textproc

import "strings"

// Normalize cleans extracted document text for downstream chunking.
//
// It applies, in order:
//  1. Removal of non-printable control characters (C0 controls except
//     tab/newline/carriage return, DEL, and C1 controls). This is byte-range
//     filtering only; no encoding or language detection is attempted.
//  2. Whitespace collapsing: any whitespace run containing two or more
//     newlines becomes exactly one paragraph break ("\n\n"); every other
//     whitespace run becomes a single space.
//  3. Trimming of leading and trailing whitespace.
//
// Normalize is total: it never fails, and the empty string maps to the empty
// string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := stripControls(text)

	var b strings.Builder
	b.Grow(len(cleaned))

	// Tracks the whitespace run currently being scanned. A run with two or
	// more newlines is a paragraph break; anything else collapses to a space.
	inRun := false
	newlines := 0

	flush := func() {
		if !inRun {
			return
		}
		if newlines >= 2 {
			b.WriteString("\n\n")
		} else {
			b.WriteByte(' ')
		}
		inRun = false
		newlines = 0
	}

	for _, r := range cleaned {
		if isWhitespace(r) {
			inRun = true
			if r == '\n' {
				newlines++
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// stripControls removes control characters that commonly leak out of
// document extraction: C0 controls other than the whitespace ones, DEL
// (0x7F), and the C1 range (U+0080 to U+009F). Vertical tab and form feed
// survive so the collapsing pass turns them into spaces instead of gluing
// the surrounding words together.
func stripControls(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			return r
		case r < 0x20:
			return -1
		case r == 0x7F:
			return -1
		case r >= 0x80 && r <= 0x9F:
			return -1
		default:
			return r
		}
	}, text)
}

// isWhitespace reports whether r is treated as whitespace for collapsing.
// The set intentionally matches the characters document extractors emit
// (space, tab, newline, carriage return, vertical tab, form feed).
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
