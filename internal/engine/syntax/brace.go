package syntax

import (
	"strings"
	"unicode/utf8"
)

type openDelim struct {
	closer byte
	kind   ScopeKind
	line   int
	depth  int
}

// scanBraces pairs bracket delimiters outside strings and comments.
// Closers with no matching opener are ignored; openers never closed extend
// to the last line.
func scanBraces(text string, starts []int, lang Language) []Scope {
	var (
		scopes []Scope
		stack  []openDelim
		line   int
	)

	i := 0
	for i < len(text) {
		c := text[i]

		if c == '\n' {
			line++
			i++
			continue
		}

		if skip := skipNonCode(text, i, lang); skip > i {
			line += strings.Count(text[i:skip], "\n")
			i = skip
			continue
		}

		switch c {
		case '{', '(', '[':
			closer, kind := delimFor(c)
			stack = append(stack, openDelim{closer: closer, kind: kind, line: line, depth: len(stack)})
		case '}', ')', ']':
			if len(stack) > 0 && stack[len(stack)-1].closer == c {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if line > top.line {
					scopes = append(scopes, braceScope(text, starts, top, line))
				}
			}
		}
		i++
	}

	for j := len(stack) - 1; j >= 0; j-- {
		if line > stack[j].line {
			scopes = append(scopes, braceScope(text, starts, stack[j], line))
		}
	}

	return scopes
}

func braceScope(text string, starts []int, open openDelim, end int) Scope {
	return Scope{
		Kind:   open.kind,
		Header: headerLine(text, starts, open.line),
		Open:   open.line,
		End:    end,
		Depth:  open.depth,
	}
}

// headerLine moves a lone opening delimiter up to the previous non-blank line.
func headerLine(text string, starts []int, open int) int {
	trimmed := strings.TrimSpace(lineText(text, starts, open))
	if len(trimmed) != 1 || !strings.ContainsAny(trimmed, "{([") {
		return open
	}
	for l := open - 1; l >= 0; l-- {
		if strings.TrimSpace(lineText(text, starts, l)) != "" {
			return l
		}
	}
	return open
}

func delimFor(c byte) (byte, ScopeKind) {
	switch c {
	case '(':
		return ')', ScopeParen
	case '[':
		return ']', ScopeBracket
	default:
		return '}', ScopeBrace
	}
}

// skipNonCode returns the offset just past a comment or string starting at
// i, or i when none starts there. Line comments stop before the newline.
func skipNonCode(text string, i int, lang Language) int {
	rest := text[i:]

	for _, lc := range lang.LineComments {
		if strings.HasPrefix(rest, lc) {
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				return i + nl
			}
			return len(text)
		}
	}

	for _, bc := range lang.BlockComments {
		if strings.HasPrefix(rest, bc.Open) {
			body := rest[len(bc.Open):]
			if end := strings.Index(body, bc.Close); end >= 0 {
				return i + len(bc.Open) + end + len(bc.Close)
			}
			return len(text)
		}
	}

	if lang.CharLiterals && rest[0] == '\'' {
		if end := skipCharLiteral(text, i); end > i {
			return end
		}
	}

	if lang.RawStringPrefix != "" {
		if end := skipRawString(text, i, lang.RawStringPrefix); end > i {
			return end
		}
	}

	for _, d := range lang.RawStringDelims {
		if strings.HasPrefix(rest, d) {
			body := rest[len(d):]
			if end := strings.Index(body, d); end >= 0 {
				return i + len(d) + end + len(d)
			}
			return len(text)
		}
	}

	for _, d := range lang.StringDelims {
		if strings.HasPrefix(rest, d) {
			return skipString(text, i+len(d), d)
		}
	}

	return i
}

// skipString scans a single-line string body starting at j. An unterminated
// string stops at the end of the line.
func skipString(text string, j int, delim string) int {
	for j < len(text) {
		switch {
		case text[j] == '\n':
			return j
		case text[j] == '\\' && j+1 < len(text) && text[j+1] != '\n':
			j += 2
		case strings.HasPrefix(text[j:], delim):
			return j + len(delim)
		default:
			j++
		}
	}
	return j
}

// skipCharLiteral returns the offset past a character literal at i, or i
// when the quote starts a lifetime or label.
func skipCharLiteral(text string, i int) int {
	j := i + 1
	if j >= len(text) || text[j] == '\n' {
		return i
	}
	if text[j] == '\\' {
		if j+1 >= len(text) || text[j+1] == '\n' {
			return i
		}
		for k := j + 2; k < len(text) && text[k] != '\n'; k++ {
			if text[k] == '\'' {
				return k + 1
			}
		}
		return i
	}
	_, size := utf8.DecodeRuneInString(text[j:])
	if j+size < len(text) && text[j+size] == '\'' {
		return j + size + 1
	}
	return i
}

// skipRawString returns the offset past a prefixed raw string at i, or i
// when none starts there. The prefix must not continue an identifier.
func skipRawString(text string, i int, prefix string) int {
	if i > 0 && isIdentByte(text[i-1]) {
		return i
	}
	j := i
	if strings.HasPrefix(text[j:], "b"+prefix) {
		j++
	}
	if !strings.HasPrefix(text[j:], prefix) {
		return i
	}
	j += len(prefix)

	hashes := 0
	for j < len(text) && text[j] == '#' {
		hashes++
		j++
	}
	if j >= len(text) || text[j] != '"' {
		return i
	}
	j++

	closer := `"` + strings.Repeat("#", hashes)
	if end := strings.Index(text[j:], closer); end >= 0 {
		return j + end + len(closer)
	}
	return len(text)
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= utf8.RuneSelf
}
