package selection

import "testing"

func TestNewSelection(t *testing.T) {
	s := NewSelection(10, 20)

	if s.Anchor != 10 || s.Head != 20 {
		t.Errorf("expected anchor=10, head=20, got anchor=%d, head=%d", s.Anchor, s.Head)
	}
	if s.IsEmpty() {
		t.Error("selection should not be empty")
	}
	if !s.IsForward() {
		t.Error("selection should be forward")
	}
}

func TestCursorSelection(t *testing.T) {
	s := NewCursorSelection(15)

	if !s.IsEmpty() {
		t.Error("cursor selection should be empty")
	}
	if s.String() != "Cursor(15)" {
		t.Errorf("unexpected string %q", s.String())
	}
}

func TestSelectionRange(t *testing.T) {
	forward := NewSelection(10, 20)
	backward := NewSelection(20, 10)

	if forward.Range() != backward.Range() {
		t.Errorf("ranges differ: %s vs %s", forward.Range(), backward.Range())
	}
	if backward.Start() != 10 || backward.End() != 20 {
		t.Errorf("expected [10,20), got [%d,%d)", backward.Start(), backward.End())
	}
	if !backward.IsBackward() {
		t.Error("selection should be backward")
	}
	if backward.Len() != 10 {
		t.Errorf("expected length 10, got %d", backward.Len())
	}
	if !forward.SameRange(backward) {
		t.Error("selections should cover the same range")
	}
	if forward.Equals(backward) {
		t.Error("selections with different direction are not equal")
	}
}

func TestSelectionCursor(t *testing.T) {
	s := NewSelection(20, 10)

	if s.Cursor(CursorStart) != 10 {
		t.Errorf("expected start cursor 10, got %d", s.Cursor(CursorStart))
	}
	if s.Cursor(CursorEnd) != 20 {
		t.Errorf("expected end cursor 20, got %d", s.Cursor(CursorEnd))
	}
	if c := s.Collapse(CursorEnd); !c.IsEmpty() || c.Head != 20 {
		t.Errorf("expected cursor at 20, got %s", c)
	}
}

func TestRepositionKeepsDirection(t *testing.T) {
	target := NewRange(30, 40)

	forward := NewSelection(0, 5).Reposition(target)
	if forward.Anchor != 30 || forward.Head != 40 {
		t.Errorf("forward: expected 30→40, got %s", forward)
	}

	backward := NewSelection(5, 0).Reposition(target)
	if backward.Anchor != 40 || backward.Head != 30 {
		t.Errorf("backward: expected 40←30, got %s", backward)
	}

	cursor := NewCursorSelection(3).Reposition(target)
	if !cursor.IsForward() || cursor.Range() != target {
		t.Errorf("cursor: expected forward over %s, got %s", target, cursor)
	}
}

func TestRepositionWhileExtending(t *testing.T) {
	s := NewSelection(20, 30).Extend()

	after := s.Reposition(NewRange(40, 50))
	if after.Anchor != 20 || after.Head != 50 {
		t.Errorf("extend forward: expected 20→50, got %s", after)
	}
	if !after.Extending || after.Initial != NewRange(20, 30) {
		t.Errorf("extension state lost: %s", after)
	}

	before := s.Reposition(NewRange(0, 10))
	if before.Anchor != 30 || before.Head != 0 {
		t.Errorf("extend backward: expected 30←0, got %s", before)
	}
	if before.ExtendedRange() != NewRange(0, 30) {
		t.Errorf("expected extended range [0:30), got %s", before.ExtendedRange())
	}

	stopped := before.StopExtending()
	if stopped.Extending || stopped.Range() != NewRange(0, 30) {
		t.Errorf("stop extending: got %s", stopped)
	}
}

func TestFlip(t *testing.T) {
	s := NewSelection(1, 9).Flip()
	if s.Anchor != 9 || s.Head != 1 {
		t.Errorf("expected 9←1, got %s", s)
	}
}

func TestRangeHelpers(t *testing.T) {
	r := NewRange(5, 10)
	if !r.Contains(5) || r.Contains(10) {
		t.Error("range should be half-open")
	}
	if r.Union(NewRange(0, 7)) != NewRange(0, 10) {
		t.Errorf("unexpected union %s", r.Union(NewRange(0, 7)))
	}
	if !NewRange(3, 3).IsEmpty() {
		t.Error("range should be empty")
	}
}

func TestParseCursorDirection(t *testing.T) {
	if d, ok := ParseCursorDirection("end"); !ok || d != CursorEnd {
		t.Errorf("expected end, got %s %v", d, ok)
	}
	if _, ok := ParseCursorDirection("middle"); ok {
		t.Error("middle should not parse")
	}
}
