package config

import (
	"slices"
	"strings"

	"github.com/dshills/strata/internal/engine/syntax"
)

// LanguageTable returns the built-in languages with the configured entries
// applied. An entry named after a built-in language changes only the fields
// it sets.
func (c *Config) LanguageTable() (*syntax.Table, error) {
	table := syntax.DefaultTable()

	names := make([]string, 0, len(c.Syntax.Languages))
	for name := range c.Syntax.Languages {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		lc := c.Syntax.Languages[name]
		path := "syntax.languages." + name

		lang, ok := table.ByName(name)
		if !ok {
			lang = syntax.Language{Name: strings.ToLower(name), Strategy: syntax.StrategyBrace}
		}

		if lc.Strategy != "" {
			s, ok := syntax.ParseStrategy(lc.Strategy)
			if !ok {
				return nil, &ValidationError{Path: path + ".strategy", Message: "must be brace or indent", Value: lc.Strategy}
			}
			lang.Strategy = s
		}
		if lc.TabWidth < 0 {
			return nil, &ValidationError{Path: path + ".tab_width", Message: "must not be negative", Value: lc.TabWidth}
		}
		if lc.TabWidth > 0 {
			lang.TabWidth = lc.TabWidth
		}
		if len(lc.Extensions) > 0 {
			lang.Extensions = normalizeExtensions(lc.Extensions)
		}
		if len(lc.LineComments) > 0 {
			lang.LineComments = lc.LineComments
		}
		if len(lc.StringDelims) > 0 {
			lang.StringDelims = lc.StringDelims
		}

		table.Add(lang)
	}

	return table, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
