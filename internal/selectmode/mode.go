package selectmode

import (
	"iter"

	"github.com/dshills/strata/internal/engine/selection"
	"github.com/dshills/strata/internal/engine/syntax"
)

// Buffer is the read-only view of a text buffer that modes navigate.
type Buffer interface {
	// Len returns the byte length of the content.
	Len() int

	// LenLines returns the line count, including the empty final line of
	// content that ends with a newline.
	LenLines() int

	// LineToByte returns the offset of the first byte of line.
	LineToByte(line int) (int, error)

	// LineLen returns the byte length of line including its newline.
	LineLen(line int) (int, error)

	// ByteToLine returns the line containing offset.
	ByteToLine(offset int) (int, error)

	// ParentLines returns the lines that syntactically enclose line,
	// ordered by line number.
	ParentLines(line int) ([]syntax.ParentLine, error)
}

// Context carries editor settings that influence navigation.
type Context struct {
	// Wrap makes Next and Previous continue from the other end of the buffer.
	Wrap bool
}

// Params are the inputs of every mode operation.
type Params struct {
	Buffer          Buffer
	Current         selection.Selection
	CursorDirection selection.CursorDirection
	Context         Context
}

// Mode is a selection mode.
type Mode interface {
	// Name returns a short identifier for status display.
	Name() string

	// Iter yields every selectable region in ascending start order.
	// A buffer failure is yielded once as the final element.
	Iter(p Params) iter.Seq2[Region, error]

	// Up returns the selection for the enclosing unit.
	// ok is false when there is nowhere further up to go.
	Up(p Params) (sel selection.Selection, ok bool, err error)
}

// Downer is implemented by modes with their own notion of moving down.
type Downer interface {
	Down(p Params) (sel selection.Selection, ok bool, err error)
}

// Collect drains a region sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[Region, error]) ([]Region, error) {
	var regions []Region
	for r, err := range seq {
		if err != nil {
			return regions, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}
