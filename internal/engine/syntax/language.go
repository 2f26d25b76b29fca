package syntax

import (
	"path/filepath"
	"strings"
)

// Strategy selects how scopes are derived from text.
type Strategy uint8

const (
	// StrategyBrace derives scopes from bracket pairs.
	StrategyBrace Strategy = iota
	// StrategyIndent derives scopes from indentation.
	StrategyIndent
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyBrace:
		return "brace"
	case StrategyIndent:
		return "indent"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name. Unknown names report false.
func ParseStrategy(s string) (Strategy, bool) {
	switch strings.ToLower(s) {
	case "brace", "braces", "":
		return StrategyBrace, true
	case "indent", "indentation":
		return StrategyIndent, true
	default:
		return StrategyBrace, false
	}
}

// BlockComment is a pair of block comment delimiters.
type BlockComment struct {
	Open  string
	Close string
}

// Language describes the lexical conventions the scanners need.
type Language struct {
	Name       string
	Extensions []string
	Strategy   Strategy

	// LineComments start a comment that runs to the end of the line.
	LineComments []string

	// BlockComments may span lines.
	BlockComments []BlockComment

	// StringDelims open a string closed by the same delimiter on the same line.
	StringDelims []string

	// RawStringDelims open a string that may span lines and has no escapes.
	RawStringDelims []string

	// RawStringPrefix introduces a raw string fenced by optional '#'
	// characters, as in r"..", r#".."# and br"..".
	RawStringPrefix string

	// CharLiterals makes a single quote open a character literal when it
	// holds one character or an escape. Otherwise the quote starts a
	// lifetime or label and is code.
	CharLiterals bool

	// TabWidth is the indentation width of a tab for the indent strategy.
	TabWidth int
}

var cBlock = []BlockComment{{Open: "/*", Close: "*/"}}

// Built-in languages.
var (
	Plaintext = Language{
		Name:     "plaintext",
		Strategy: StrategyBrace,
		TabWidth: 4,
	}

	Rust = Language{
		Name:            "rust",
		Extensions:      []string{".rs"},
		Strategy:        StrategyBrace,
		LineComments:    []string{"//"},
		BlockComments:   cBlock,
		StringDelims:    []string{`"`},
		RawStringPrefix: "r",
		CharLiterals:    true,
		TabWidth:        4,
	}

	Go = Language{
		Name:            "go",
		Extensions:      []string{".go"},
		Strategy:        StrategyBrace,
		LineComments:    []string{"//"},
		BlockComments:   cBlock,
		StringDelims:    []string{`"`, `'`},
		RawStringDelims: []string{"`"},
		TabWidth:        4,
	}

	C = Language{
		Name:          "c",
		Extensions:    []string{".c", ".h", ".cc", ".cpp", ".hpp"},
		Strategy:      StrategyBrace,
		LineComments:  []string{"//"},
		BlockComments: cBlock,
		StringDelims:  []string{`"`, `'`},
		TabWidth:      4,
	}

	Java = Language{
		Name:          "java",
		Extensions:    []string{".java", ".kt"},
		Strategy:      StrategyBrace,
		LineComments:  []string{"//"},
		BlockComments: cBlock,
		StringDelims:  []string{`"`, `'`},
		TabWidth:      4,
	}

	JavaScript = Language{
		Name:            "javascript",
		Extensions:      []string{".js", ".mjs", ".cjs", ".jsx"},
		Strategy:        StrategyBrace,
		LineComments:    []string{"//"},
		BlockComments:   cBlock,
		StringDelims:    []string{`"`, `'`},
		RawStringDelims: []string{"`"},
		TabWidth:        4,
	}

	TypeScript = Language{
		Name:            "typescript",
		Extensions:      []string{".ts", ".tsx"},
		Strategy:        StrategyBrace,
		LineComments:    []string{"//"},
		BlockComments:   cBlock,
		StringDelims:    []string{`"`, `'`},
		RawStringDelims: []string{"`"},
		TabWidth:        4,
	}

	JSON = Language{
		Name:         "json",
		Extensions:   []string{".json"},
		Strategy:     StrategyBrace,
		StringDelims: []string{`"`},
		TabWidth:     4,
	}

	Python = Language{
		Name:            "python",
		Extensions:      []string{".py", ".pyi"},
		Strategy:        StrategyIndent,
		LineComments:    []string{"#"},
		StringDelims:    []string{`"`, `'`},
		RawStringDelims: []string{`"""`, `'''`},
		TabWidth:        4,
	}

	YAML = Language{
		Name:         "yaml",
		Extensions:   []string{".yaml", ".yml"},
		Strategy:     StrategyIndent,
		LineComments: []string{"#"},
		StringDelims: []string{`"`, `'`},
		TabWidth:     2,
	}
)

// Builtins returns the built-in language table.
func Builtins() []Language {
	return []Language{Rust, Go, C, Java, JavaScript, TypeScript, JSON, Python, YAML, Plaintext}
}

// Table maps language names and file extensions to languages.
type Table struct {
	byName map[string]Language
	byExt  map[string]Language
}

// NewTable creates a table containing the given languages.
// Later entries replace earlier ones with the same name or extension.
func NewTable(langs ...Language) *Table {
	t := &Table{
		byName: make(map[string]Language),
		byExt:  make(map[string]Language),
	}
	for _, l := range langs {
		t.Add(l)
	}
	return t
}

// DefaultTable returns a table of the built-in languages.
func DefaultTable() *Table {
	return NewTable(Builtins()...)
}

// Add registers a language, replacing any previous entry with the same name.
func (t *Table) Add(l Language) {
	if l.TabWidth <= 0 {
		l.TabWidth = 4
	}
	t.byName[strings.ToLower(l.Name)] = l
	for _, ext := range l.Extensions {
		t.byExt[strings.ToLower(ext)] = l
	}
}

// ByName looks up a language by name.
func (t *Table) ByName(name string) (Language, bool) {
	l, ok := t.byName[strings.ToLower(name)]
	return l, ok
}

// Detect selects a language by file extension, falling back to Plaintext.
func (t *Table) Detect(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := t.byExt[ext]; ok {
		return l
	}
	return Plaintext
}

// Detect selects a built-in language by file extension.
func Detect(path string) Language {
	return DefaultTable().Detect(path)
}
