package selectmode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/strata/internal/engine/buffer"
	"github.com/dshills/strata/internal/engine/selection"
	"github.com/dshills/strata/internal/engine/syntax"
)

const nestedRust = `fn f() {
    fn g() {
        let a = 1;
        let b = 2;
        let c = 3;
        let d = 4;
    }

}`

type span struct {
	start, end int
	text       string
}

func spans(t *testing.T, buf *buffer.Buffer, m Mode, cur selection.Selection) []span {
	t.Helper()
	regions, err := Collect(m.Iter(Params{Buffer: buf, Current: cur}))
	require.NoError(t, err)

	out := make([]span, 0, len(regions))
	for _, r := range regions {
		text, err := buf.Slice(r.Start, r.End)
		require.NoError(t, err)
		out = append(out, span{r.Start, r.End, text})
	}
	return out
}

// lineCursor selects the first byte of line.
func lineCursor(t *testing.T, buf *buffer.Buffer, line int) selection.Selection {
	t.Helper()
	start, err := buf.LineToByte(line)
	require.NoError(t, err)
	return selection.NewSelection(start, start+1)
}

func selectedText(t *testing.T, buf *buffer.Buffer, sel selection.Selection) string {
	t.Helper()
	r := sel.ExtendedRange()
	text, err := buf.Slice(r.Start, r.End)
	require.NoError(t, err)
	return text
}

func TestLineName(t *testing.T) {
	require.Equal(t, "LINE", Line{}.Name())
}

func TestLineIterBlankLines(t *testing.T) {
	buf := buffer.NewBufferFromString("a\n\n\nb\nc\n", buffer.WithLanguage(syntax.Rust))

	got := spans(t, buf, Line{}, selection.Selection{})
	require.Equal(t, []span{
		{0, 2, "a\n"},
		{2, 3, "\n"},
		{3, 4, "\n"},
		{4, 6, "b\n"},
		{6, 8, "c\n"},
	}, got)
	require.Equal(t, 6, buf.LenLines())
}

func TestLineIterSingleLineWithoutTrailingNewline(t *testing.T) {
	buf := buffer.NewBufferFromString("a", buffer.WithLanguage(syntax.Rust))
	require.Equal(t, []span{{0, 1, "a"}}, spans(t, buf, Line{}, selection.Selection{}))
}

func TestLineIterEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []span
	}{
		{"empty buffer", "", []span{}},
		{"only newline", "\n", []span{{0, 1, "\n"}}},
		{"partial final line", "ab\ncd", []span{{0, 3, "ab\n"}, {3, 5, "cd"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tt.text)
			require.Equal(t, tt.want, spans(t, buf, Line{}, selection.Selection{}))
		})
	}
}

func TestLineIterStopsEarly(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nb\nc\n")

	var seen []Region
	for r, err := range (Line{}).Iter(Params{Buffer: buf}) {
		require.NoError(t, err)
		seen = append(seen, r)
		if len(seen) == 2 {
			break
		}
	}
	require.Len(t, seen, 2)
}

func TestLineUp(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))

	test := func(line int, expected string) {
		t.Helper()
		sel, ok, err := Line{}.Up(Params{
			Buffer:          buf,
			Current:         lineCursor(t, buf, line),
			CursorDirection: selection.CursorEnd,
		})
		require.NoError(t, err)
		require.True(t, ok, "line %d should move up", line)
		require.Equal(t, expected, selectedText(t, buf, sel))
	}

	// Targets are whole enumerated lines, so the header's newline is part
	// of the selection.
	test(4, "    fn g() {\n")
	test(5, "    fn g() {\n")
	test(1, "fn f() {\n")
	test(7, "fn f() {\n")
	test(8, "fn f() {\n")
}

func TestLineUpSelectsWholeEnumeratedLine(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))

	sel, ok, err := Line{}.Up(Params{Buffer: buf, Current: lineCursor(t, buf, 4)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "    fn g() {\n", selectedText(t, buf, sel))

	regions, err := Collect(Line{}.Iter(Params{Buffer: buf}))
	require.NoError(t, err)
	require.Contains(t, regions, Region{Start: sel.Start(), End: sel.End()})
}

func TestLineUpIgnoresLiteralDelimiters(t *testing.T) {
	up := func(text string, line int) (string, bool) {
		t.Helper()
		buf := buffer.NewBufferFromString(text, buffer.WithLanguage(syntax.Rust))
		sel, ok, err := Line{}.Up(Params{Buffer: buf, Current: lineCursor(t, buf, line)})
		require.NoError(t, err)
		if !ok {
			return "", false
		}
		return selectedText(t, buf, sel), true
	}

	chars := "fn f() {\n    let c = '{';\n}\nfn g() {\n    x;\n}\n"
	_, ok := up(chars, 3)
	require.False(t, ok, "fn g is top level")
	got, ok := up(chars, 2)
	require.True(t, ok)
	require.Equal(t, "fn f() {\n", got)

	raw := "fn f() {\n    let s = r\"a\n}\";\n    let y = 2;\n}\n"
	got, ok = up(raw, 3)
	require.True(t, ok)
	require.Equal(t, "fn f() {\n", got)
}

func TestLineUpAtTopLevel(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))

	_, ok, err := Line{}.Up(Params{Buffer: buf, Current: lineCursor(t, buf, 0)})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLineUpRepeatedConverges(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))

	cur := lineCursor(t, buf, 5)
	var chain []string
	for {
		next, ok, err := Line{}.Up(Params{Buffer: buf, Current: cur})
		require.NoError(t, err)
		if !ok {
			break
		}
		chain = append(chain, strings.TrimSpace(selectedText(t, buf, next)))
		cur = next
	}
	require.Equal(t, []string{"fn g() {", "fn f() {"}, chain)
}

func TestLineUpKeepsSelectionShape(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))
	start, err := buf.LineToByte(4)
	require.NoError(t, err)

	backward := selection.NewSelection(start+5, start)
	sel, ok, err := Line{}.Up(Params{Buffer: buf, Current: backward})
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, sel.IsBackward())
	require.Equal(t, "    fn g() {\n", selectedText(t, buf, sel))

	extending := lineCursor(t, buf, 4).Extend()
	sel, ok, err = Line{}.Up(Params{Buffer: buf, Current: extending})
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, sel.Extending)
	require.Equal(t, extending.Initial, sel.Initial)

	lineOne, err := buf.LineToByte(1)
	require.NoError(t, err)
	require.Equal(t, lineOne, sel.Head)
	require.Equal(t, start+1, sel.Anchor)
}

func TestLineUpIgnoresParentsBelow(t *testing.T) {
	fb := &fakeBuffer{
		Buffer:  buffer.NewBufferFromString("a\nb\nc\n"),
		parents: []syntax.ParentLine{{Line: 0}, {Line: 2}},
	}

	sel, ok, err := Line{}.Up(Params{Buffer: fb, Current: selection.NewCursorSelection(2)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, selection.NewRange(0, 2), sel.Range())
}

func TestLineUpTakesLastQualifyingParent(t *testing.T) {
	fb := &fakeBuffer{
		Buffer:  buffer.NewBufferFromString("a\nb\nc\nd\n"),
		parents: []syntax.ParentLine{{Line: 0}, {Line: 1}, {Line: 2}, {Line: 5}},
	}

	// current line is 3; parents 0, 1, 2 qualify and 2 is last
	sel, ok, err := Line{}.Up(Params{Buffer: fb, Current: selection.NewCursorSelection(6)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, selection.NewRange(4, 6), sel.Range())
}

func TestLineDown(t *testing.T) {
	buf := buffer.NewBufferFromString(nestedRust, buffer.WithLanguage(syntax.Rust))

	sel, ok, err := Line{}.Down(Params{Buffer: buf, Current: lineCursor(t, buf, 1)})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "        let a = 1;\n", selectedText(t, buf, sel))

	_, ok, err = Line{}.Down(Params{Buffer: buf, Current: lineCursor(t, buf, 2)})
	require.NoError(t, err)
	require.False(t, ok, "a line with no children has nowhere to go down")

	_, ok, err = Line{}.Down(Params{Buffer: buf, Current: lineCursor(t, buf, 8)})
	require.NoError(t, err)
	require.False(t, ok, "last line has nowhere to go down")
}

func TestLineErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")

	t.Run("byte to line", func(t *testing.T) {
		fb := &fakeBuffer{Buffer: buffer.NewBufferFromString("a\n"), byteErr: boom}
		_, ok, err := Line{}.Up(Params{Buffer: fb})
		require.ErrorIs(t, err, boom)
		require.False(t, ok)
	})

	t.Run("parent lines", func(t *testing.T) {
		fb := &fakeBuffer{Buffer: buffer.NewBufferFromString("a\n"), parentErr: boom}
		_, _, err := Line{}.Up(Params{Buffer: fb})
		require.ErrorIs(t, err, boom)
	})

	t.Run("line to byte", func(t *testing.T) {
		fb := &fakeBuffer{
			Buffer:  buffer.NewBufferFromString("a\nb\n"),
			parents: []syntax.ParentLine{{Line: 0}},
			lineErr: boom,
		}
		_, _, err := Line{}.Up(Params{Buffer: fb, Current: selection.NewCursorSelection(2)})
		require.ErrorIs(t, err, boom)

		_, err = Collect(Line{}.Iter(Params{Buffer: fb}))
		require.ErrorIs(t, err, boom)
	})

	t.Run("out of range selection", func(t *testing.T) {
		buf := buffer.NewBufferFromString("a\n")
		_, _, err := Line{}.Up(Params{Buffer: buf, Current: selection.NewCursorSelection(10)})
		require.ErrorIs(t, err, buffer.ErrOffsetOutOfRange)
	})
}

func TestNewRegion(t *testing.T) {
	r, err := NewRegion(2, 5)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())
	require.True(t, r.Contains(2))
	require.False(t, r.Contains(5))
	require.Equal(t, "2..5", r.String())

	empty, err := NewRegion(4, 4)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	_, err = NewRegion(5, 2)
	require.ErrorIs(t, err, ErrInvalidRegion)
}

func TestRegionToSelectionInheritsShape(t *testing.T) {
	r := Region{Start: 10, End: 20}

	require.Equal(t, selection.NewSelection(10, 20), r.ToSelection(selection.NewCursorSelection(0)))
	require.Equal(t, selection.NewSelection(20, 10), r.ToSelection(selection.NewSelection(5, 1)))
}

// fakeBuffer overrides parts of a real buffer to inject parents and failures.
type fakeBuffer struct {
	*buffer.Buffer
	parents   []syntax.ParentLine
	byteErr   error
	parentErr error
	lineErr   error
}

func (f *fakeBuffer) ByteToLine(offset int) (int, error) {
	if f.byteErr != nil {
		return 0, f.byteErr
	}
	return f.Buffer.ByteToLine(offset)
}

func (f *fakeBuffer) ParentLines(line int) ([]syntax.ParentLine, error) {
	if f.parentErr != nil {
		return nil, f.parentErr
	}
	if f.parents != nil {
		return f.parents, nil
	}
	return f.Buffer.ParentLines(line)
}

func (f *fakeBuffer) LineToByte(line int) (int, error) {
	if f.lineErr != nil {
		return 0, f.lineErr
	}
	return f.Buffer.LineToByte(line)
}
