package selection

import "fmt"

// CursorDirection says which end of a selection the cursor is on.
type CursorDirection uint8

const (
	CursorStart CursorDirection = iota
	CursorEnd
)

// String returns the direction name.
func (d CursorDirection) String() string {
	if d == CursorEnd {
		return "end"
	}
	return "start"
}

// ParseCursorDirection parses "start" or "end".
func ParseCursorDirection(s string) (CursorDirection, bool) {
	switch s {
	case "start", "":
		return CursorStart, true
	case "end":
		return CursorEnd, true
	default:
		return CursorStart, false
	}
}

// Selection represents the active range of a cursor.
// Selection is an immutable value type.
type Selection struct {
	Anchor int // End of the range that stays put
	Head   int // End of the range the cursor is on

	// Initial is the range selected when an extension gesture started.
	// It is meaningful only while Extending is set.
	Initial   Range
	Extending bool
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection with no extent.
func NewCursorSelection(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() int {
	return s.Range().Len()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	if s.Anchor <= s.Head {
		return Range{Start: s.Anchor, End: s.Head}
	}
	return Range{Start: s.Head, End: s.Anchor}
}

// ExtendedRange returns the range navigation operates on: the selected
// range, widened by Initial while an extension gesture is active.
func (s Selection) ExtendedRange() Range {
	if s.Extending {
		return s.Range().Union(s.Initial)
	}
	return s.Range()
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// Cursor returns the cursor offset for the given direction.
func (s Selection) Cursor(dir CursorDirection) int {
	if dir == CursorEnd {
		return s.End()
	}
	return s.Start()
}

// IsForward returns true if the selection extends forward (head >= anchor).
func (s Selection) IsForward() bool {
	return s.Head >= s.Anchor
}

// IsBackward returns true if the selection extends backward (head < anchor).
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Extend starts an extension gesture anchored on the current range.
func (s Selection) Extend() Selection {
	s.Initial = s.Range()
	s.Extending = true
	return s
}

// StopExtending ends an extension gesture, keeping the selected range.
func (s Selection) StopExtending() Selection {
	s.Initial = Range{}
	s.Extending = false
	return s
}

// Reposition returns a selection covering r with the same shape as s.
// Backward selections stay backward. While extending, the result spans
// Initial and r, with the head on r's side.
func (s Selection) Reposition(r Range) Selection {
	if s.Extending {
		u := s.Initial.Union(r)
		if r.Start < s.Initial.Start {
			return Selection{Anchor: u.End, Head: u.Start, Initial: s.Initial, Extending: true}
		}
		return Selection{Anchor: u.Start, Head: u.End, Initial: s.Initial, Extending: true}
	}
	if s.IsBackward() {
		return Selection{Anchor: r.End, Head: r.Start}
	}
	return Selection{Anchor: r.Start, Head: r.End}
}

// Flip returns a selection with anchor and head swapped.
func (s Selection) Flip() Selection {
	s.Anchor, s.Head = s.Head, s.Anchor
	return s
}

// Collapse collapses the selection to a cursor at the given end.
func (s Selection) Collapse(dir CursorDirection) Selection {
	return NewCursorSelection(s.Cursor(dir))
}

// Equals returns true if two selections have the same anchor, head and
// extension state.
func (s Selection) Equals(other Selection) bool {
	return s == other
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Range() == other.Range()
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	if s.Extending {
		return fmt.Sprintf("Selection(%d%s%d, extending %s)", s.Anchor, dir, s.Head, s.Initial)
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
