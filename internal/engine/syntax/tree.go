package syntax

import (
	"sort"
	"strings"
)

// ScopeKind identifies what produced a scope.
type ScopeKind uint8

const (
	ScopeBrace ScopeKind = iota
	ScopeParen
	ScopeBracket
	ScopeIndent
)

// String returns the scope kind name.
func (k ScopeKind) String() string {
	switch k {
	case ScopeBrace:
		return "brace"
	case ScopeParen:
		return "paren"
	case ScopeBracket:
		return "bracket"
	case ScopeIndent:
		return "indent"
	default:
		return "unknown"
	}
}

// Scope is a multi-line syntactic construct.
// Header is the line a reader associates with the construct (the function
// or block header). Open is the line holding the opening delimiter, which
// differs from Header only for Allman-style blocks. End is the last line
// the construct covers.
type Scope struct {
	Kind   ScopeKind
	Header int
	Open   int
	End    int
	Depth  int
}

// Encloses reports whether line lies inside the scope below its header.
func (s Scope) Encloses(line int) bool {
	return s.Header < line && line <= s.End
}

// ParentLine is one entry of the parent-line relation.
type ParentLine struct {
	Line  int
	Depth int
	Kind  ScopeKind
}

// ScopeTree holds the scopes of one version of a text.
type ScopeTree struct {
	scopes    []Scope
	lineCount int
	language  string
}

// Parse derives the scope tree of text using the language's strategy.
func Parse(text string, lang Language) *ScopeTree {
	starts := lineStarts(text)

	var scopes []Scope
	switch lang.Strategy {
	case StrategyIndent:
		scopes = scanIndent(text, starts, lang)
	default:
		scopes = scanBraces(text, starts, lang)
	}

	sort.SliceStable(scopes, func(i, j int) bool {
		if scopes[i].Header != scopes[j].Header {
			return scopes[i].Header < scopes[j].Header
		}
		return scopes[i].Depth < scopes[j].Depth
	})

	return &ScopeTree{
		scopes:    scopes,
		lineCount: len(starts),
		language:  lang.Name,
	}
}

// Scopes returns a copy of the scopes ordered by header line.
func (t *ScopeTree) Scopes() []Scope {
	out := make([]Scope, len(t.scopes))
	copy(out, t.scopes)
	return out
}

// LineCount returns the number of lines in the parsed text.
func (t *ScopeTree) LineCount() int {
	return t.lineCount
}

// Language returns the name of the language the tree was parsed with.
func (t *ScopeTree) Language() string {
	return t.language
}

// ParentLines returns the header lines of every scope enclosing line,
// ordered by line number (outermost first). A header line shared by
// several scopes is reported once with the shallowest depth.
func (t *ScopeTree) ParentLines(line int) []ParentLine {
	var out []ParentLine
	index := make(map[int]int)

	for _, s := range t.scopes {
		if s.Header >= line {
			break
		}
		if !s.Encloses(line) {
			continue
		}
		if i, ok := index[s.Header]; ok {
			if s.Depth < out[i].Depth {
				out[i].Depth = s.Depth
				out[i].Kind = s.Kind
			}
			continue
		}
		index[s.Header] = len(out)
		out = append(out, ParentLine{Line: s.Header, Depth: s.Depth, Kind: s.Kind})
	}

	return out
}

// lineStarts returns the byte offset of the start of every line.
// A text ending in a newline has a final empty line.
func lineStarts(text string) []int {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineText returns the text of line without its terminator.
func lineText(text string, starts []int, line int) string {
	start := starts[line]
	end := len(text)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	return text[start:end]
}
