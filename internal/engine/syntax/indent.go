package syntax

import "strings"

type openIndent struct {
	line   int
	indent int
	depth  int
}

// scanIndent builds scopes from indentation. Blank and comment-only lines
// never open or close a scope, nor do lines that begin inside a multi-line
// string; those still extend the scope holding the string.
func scanIndent(text string, starts []int, lang Language) []Scope {
	var (
		scopes       []Scope
		stack        []openIndent
		lastNonBlank = -1
		inside       = continuationLines(text, len(starts), lang)
	)

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if lastNonBlank > top.line {
			scopes = append(scopes, Scope{
				Kind:   ScopeIndent,
				Header: top.line,
				Open:   top.line,
				End:    lastNonBlank,
				Depth:  top.depth,
			})
		}
	}

	for ln := range starts {
		if inside[ln] {
			lastNonBlank = ln
			continue
		}
		s := lineText(text, starts, ln)
		if isBlankOrComment(s, lang) {
			continue
		}
		ind := indentWidth(s, lang.TabWidth)
		for len(stack) > 0 && stack[len(stack)-1].indent >= ind {
			closeTop()
		}
		stack = append(stack, openIndent{line: ln, indent: ind, depth: len(stack)})
		lastNonBlank = ln
	}

	for len(stack) > 0 {
		closeTop()
	}

	return scopes
}

// continuationLines marks the lines that start inside a string or comment
// opened on an earlier line.
func continuationLines(text string, lineCount int, lang Language) []bool {
	inside := make([]bool, lineCount)
	line := 0
	for i := 0; i < len(text); {
		if text[i] == '\n' {
			line++
			i++
			continue
		}
		skip := skipNonCode(text, i, lang)
		if skip == i {
			i++
			continue
		}
		for n := strings.Count(text[i:skip], "\n"); n > 0; n-- {
			line++
			inside[line] = true
		}
		i = skip
	}
	return inside
}

func isBlankOrComment(s string, lang Language) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	for _, lc := range lang.LineComments {
		if strings.HasPrefix(trimmed, lc) {
			return true
		}
	}
	return false
}

func indentWidth(s string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	width := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width
		}
	}
	return width
}
