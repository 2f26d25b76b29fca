package buffer

import (
	"strings"

	"github.com/dshills/strata/internal/engine/syntax"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLanguage sets the language used to derive scopes.
func WithLanguage(lang syntax.Language) Option {
	return func(b *Buffer) {
		b.language = lang
	}
}

// WithScopeCache shares a scope-tree cache between buffers.
func WithScopeCache(c *syntax.Cache) Option {
	return func(b *Buffer) {
		if c != nil {
			b.scopes = c
		}
	}
}

// DetectLineEnding returns the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlf++
			i++
		case text[i] == '\r':
			cr++
		case text[i] == '\n':
			lf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf && cr >= crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
