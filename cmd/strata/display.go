package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/strata/internal/engine/buffer"
)

// maxTextWidth is the display width at which region text is truncated.
const maxTextWidth = 60

// row formats the byte range [start, end) as one line of output:
// its first line number, indentation column, range and quoted text.
func row(buf *buffer.Buffer, start, end int) (string, error) {
	p, err := buf.OffsetToPoint(start)
	if err != nil {
		return "", err
	}
	text, err := buf.Slice(start, end)
	if err != nil {
		return "", err
	}

	first, _, _ := strings.Cut(text, "\n")
	body := strings.TrimLeft(first, " \t　")
	col := indentColumn(first[:len(first)-len(body)], buf.Language().TabWidth)

	shown := strings.TrimSuffix(text, "\n")
	shown = runewidth.Truncate(shown, maxTextWidth, "…")

	return fmt.Sprintf("L%-4d col %-3d %d..%d  %s", p.Line+1, col, start, end, strconv.Quote(shown)), nil
}

// indentColumn returns the display width of leading whitespace, with tabs
// advancing to the next tab stop.
func indentColumn(indent string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	col := 0
	for _, r := range indent {
		if r == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

func printRow(w io.Writer, buf *buffer.Buffer, start, end int) error {
	line, err := row(buf, start, end)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
