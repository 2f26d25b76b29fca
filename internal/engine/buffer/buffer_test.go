package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/strata/internal/engine/syntax"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LenLines() != 1 {
		t.Errorf("expected 1 line, got %d", b.LenLines())
	}
	if n, err := b.LineLen(0); err != nil || n != 0 {
		t.Errorf("expected empty line 0, got %d, %v", n, err)
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LenLines() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LenLines())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		got, err := b.LineText(i)
		if err != nil {
			t.Fatalf("LineText(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestLenLinesTrailingNewline(t *testing.T) {
	tests := []struct {
		text  string
		lines int
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 2},
		{"a\n\n\nb\nc\n", 6},
		{"\n", 2},
	}

	for _, tt := range tests {
		b := NewBufferFromString(tt.text)
		if b.LenLines() != tt.lines {
			t.Errorf("%q: expected %d lines, got %d", tt.text, tt.lines, b.LenLines())
		}
	}
}

func TestLineLenIncludesNewline(t *testing.T) {
	b := NewBufferFromString("ab\n\ncd")

	want := []int{3, 1, 2}
	for i, w := range want {
		got, err := b.LineLen(i)
		if err != nil {
			t.Fatalf("LineLen(%d): %v", i, err)
		}
		if got != w {
			t.Errorf("line %d: expected length %d, got %d", i, w, got)
		}
	}

	start, end, err := b.LineByteRange(1)
	if err != nil || start != 3 || end != 4 {
		t.Errorf("expected [3,4), got [%d,%d) %v", start, end, err)
	}
}

func TestLineToByte(t *testing.T) {
	b := NewBufferFromString("a\n\n\nb\nc\n")

	want := []int{0, 2, 3, 4, 6, 8}
	for i, w := range want {
		got, err := b.LineToByte(i)
		if err != nil {
			t.Fatalf("LineToByte(%d): %v", i, err)
		}
		if got != w {
			t.Errorf("line %d: expected offset %d, got %d", i, w, got)
		}
	}

	if _, err := b.LineToByte(6); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
	if _, err := b.LineToByte(-1); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestByteToLine(t *testing.T) {
	b := NewBufferFromString("ab\ncd\n")

	tests := []struct {
		offset int
		line   int
	}{
		{0, 0}, {1, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 2},
	}
	for _, tt := range tests {
		got, err := b.ByteToLine(tt.offset)
		if err != nil {
			t.Fatalf("ByteToLine(%d): %v", tt.offset, err)
		}
		if got != tt.line {
			t.Errorf("offset %d: expected line %d, got %d", tt.offset, tt.line, got)
		}
	}

	if _, err := b.ByteToLine(7); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd")
	p, err := b.OffsetToPoint(4)
	if err != nil {
		t.Fatal(err)
	}
	if p != (Point{Line: 1, Column: 1}) {
		t.Errorf("expected (1:1), got %s", p)
	}
}

func TestSlice(t *testing.T) {
	b := NewBufferFromString("hello world")

	s, err := b.Slice(6, 11)
	if err != nil || s != "world" {
		t.Errorf("expected world, got %q %v", s, err)
	}

	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 12}} {
		if _, err := b.Slice(r[0], r[1]); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("Slice(%d,%d): expected ErrRangeInvalid, got %v", r[0], r[1], err)
		}
	}
}

func TestLineEndingNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\r\n")

	if b.Text() != "a\nb\n" {
		t.Errorf("expected LF text, got %q", b.Text())
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("expected CRLF detected, got %s", b.LineEnding())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\nb\nc\r\n", LineEndingLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("x\ny"))
	if err != nil {
		t.Fatal(err)
	}
	if b.LenLines() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LenLines())
	}
}

func TestParentLines(t *testing.T) {
	text := "fn f() {\n    fn g() {\n        x;\n    }\n}"
	b := NewBufferFromString(text, WithLanguage(syntax.Rust))

	pls, err := b.ParentLines(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pls) != 2 || pls[0].Line != 0 || pls[1].Line != 1 {
		t.Errorf("expected parents [0 1], got %+v", pls)
	}

	if _, err := b.ParentLines(99); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestEditsRefreshIndexAndScopes(t *testing.T) {
	cache := syntax.NewCache(0)
	b := NewBufferFromString("fn f() {\n    x;\n}\n", WithLanguage(syntax.Rust), WithScopeCache(cache))

	rev := b.RevisionID()
	if _, err := b.ParentLines(1); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 cached tree, got %d", cache.Len())
	}

	end, err := b.Insert(0, "// header\n")
	if err != nil {
		t.Fatal(err)
	}
	if end != 10 {
		t.Errorf("expected insert end 10, got %d", end)
	}
	if b.RevisionID() == rev {
		t.Error("revision should change after edit")
	}
	if cache.Len() != 0 {
		t.Errorf("stale tree should be evicted, cache has %d", cache.Len())
	}

	pls, err := b.ParentLines(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pls) != 1 || pls[0].Line != 1 {
		t.Errorf("expected parent line 1 after insert, got %+v", pls)
	}

	if err := b.Delete(0, 10); err != nil {
		t.Fatal(err)
	}
	if b.LenLines() != 4 {
		t.Errorf("expected 4 lines after delete, got %d", b.LenLines())
	}

	if _, err := b.Replace(5, 2, "x"); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if _, err := b.Insert(100, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBufferConcurrentReads(t *testing.T) {
	b := NewBufferFromString(strings.Repeat("fn f() {\n    x;\n}\n", 50), WithLanguage(syntax.Rust))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for line := 0; line < b.LenLines(); line++ {
				if _, err := b.ParentLines(line); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
