package buffer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/dshills/strata/internal/engine/syntax"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds text, its line index and its language.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	starts     []int
	revisionID RevisionID
	lineEnding LineEnding
	language   syntax.Language
	scopes     *syntax.Cache
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		starts:     []int{0},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		language:   syntax.Plaintext,
	}

	for _, opt := range opts {
		opt(b)
	}
	if b.scopes == nil {
		b.scopes = syntax.NewCache(0)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lineEnding = DetectLineEnding(s)
	b.setText(normalizeLineEndings(s))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading buffer content: %w", err)
	}
	return NewBufferFromString(string(data), opts...), nil
}

// setText replaces the content and rebuilds the line index.
// Caller must hold the write lock or own b exclusively.
func (b *Buffer) setText(s string) {
	b.text = s
	starts := make([]int, 1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.starts = starts
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LenLines returns the number of newlines plus one, including the empty
// final line of text that ends with a newline.
func (b *Buffer) LenLines() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.starts)
}

// LineToByte returns the byte offset of the first byte of line.
func (b *Buffer) LineToByte(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.starts) {
		return 0, fmt.Errorf("line %d of %d: %w", line, len(b.starts), ErrLineOutOfRange)
	}
	return b.starts[line], nil
}

// LineLen returns the byte length of line including its newline, if any.
func (b *Buffer) LineLen(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end, err := b.lineBounds(line)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// LineByteRange returns the [start, end) byte range of line including its
// newline, if any.
func (b *Buffer) LineByteRange(line int) (int, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineBounds(line)
}

func (b *Buffer) lineBounds(line int) (int, int, error) {
	if line < 0 || line >= len(b.starts) {
		return 0, 0, fmt.Errorf("line %d of %d: %w", line, len(b.starts), ErrLineOutOfRange)
	}
	end := len(b.text)
	if line+1 < len(b.starts) {
		end = b.starts[line+1]
	}
	return b.starts[line], end, nil
}

// LineText returns the text of line without its newline.
func (b *Buffer) LineText(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end, err := b.lineBounds(line)
	if err != nil {
		return "", err
	}
	if end > start && b.text[end-1] == '\n' {
		end--
	}
	return b.text[start:end], nil
}

// ByteToLine returns the line containing offset. The offset one past the
// last byte belongs to the last line.
func (b *Buffer) ByteToLine(offset int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.byteToLine(offset)
}

func (b *Buffer) byteToLine(offset int) (int, error) {
	if offset < 0 || offset > len(b.text) {
		return 0, fmt.Errorf("offset %d of %d: %w", offset, len(b.text), ErrOffsetOutOfRange)
	}
	return sort.SearchInts(b.starts, offset+1) - 1, nil
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset int) (Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line, err := b.byteToLine(offset)
	if err != nil {
		return Point{}, err
	}
	return Point{Line: line, Column: offset - b.starts[line]}, nil
}

// Slice returns the text in the byte range [start, end).
func (b *Buffer) Slice(start, end int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if start < 0 || start > end || end > len(b.text) {
		return "", fmt.Errorf("[%d:%d) of %d: %w", start, end, len(b.text), ErrRangeInvalid)
	}
	return b.text[start:end], nil
}

// ParentLines returns the lines whose scopes enclose line, outermost first.
func (b *Buffer) ParentLines(line int) ([]syntax.ParentLine, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.starts) {
		return nil, fmt.Errorf("line %d of %d: %w", line, len(b.starts), ErrLineOutOfRange)
	}
	tree := b.scopes.GetOrParse(b.scopeKey(), b.text, b.language)
	return tree.ParentLines(line), nil
}

// ScopeTree returns the scope tree of the current revision.
func (b *Buffer) ScopeTree() *syntax.ScopeTree {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.scopes.GetOrParse(b.scopeKey(), b.text, b.language)
}

func (b *Buffer) scopeKey() string {
	return fmt.Sprintf("%s@%d", b.language.Name, b.revisionID)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end offset of the inserted text.
func (b *Buffer) Insert(offset int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > len(b.text) {
		return 0, fmt.Errorf("insert at %d of %d: %w", offset, len(b.text), ErrOffsetOutOfRange)
	}

	text = normalizeLineEndings(text)
	b.commit(b.text[:offset] + text + b.text[offset:])
	return offset + len(text), nil
}

// Delete removes text in the range [start, end).
func (b *Buffer) Delete(start, end int) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces text in the range [start, end) with new text.
// Returns the end offset of the replacement text.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > len(b.text) {
		return 0, fmt.Errorf("replace [%d:%d) of %d: %w", start, end, len(b.text), ErrRangeInvalid)
	}

	text = normalizeLineEndings(text)
	b.commit(b.text[:start] + text + b.text[end:])
	return start + len(text), nil
}

// commit installs new content under a fresh revision.
func (b *Buffer) commit(s string) {
	b.scopes.Delete(b.scopeKey())
	b.setText(s)
	b.revisionID = NewRevisionID()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the line ending style detected in the original input.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Language returns the buffer's language.
func (b *Buffer) Language() syntax.Language {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.language
}

// SetLanguage changes the buffer's language.
func (b *Buffer) SetLanguage(lang syntax.Language) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.language = lang
}
