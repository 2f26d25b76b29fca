package selectmode

import (
	"iter"

	"github.com/dshills/strata/internal/engine/selection"
)

// Line selects whole lines, each including its newline.
type Line struct{}

// Name implements Mode.
func (Line) Name() string {
	return "LINE"
}

// Iter yields one region per line. The empty final line reported for
// content ending in a newline is skipped; a line holding only a newline is
// one byte long and kept.
func (Line) Iter(p Params) iter.Seq2[Region, error] {
	return func(yield func(Region, error) bool) {
		n := p.Buffer.LenLines()
		for i := 0; i < n; i++ {
			r, err := lineRegion(p.Buffer, i)
			if err != nil {
				yield(Region{}, err)
				return
			}
			if r.Start == r.End {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Up moves to the nearest enclosing header line above the current line.
// Parent lines come ordered by line number; among those above the current
// line the last one is taken.
func (Line) Up(p Params) (selection.Selection, bool, error) {
	current, err := p.Buffer.ByteToLine(p.Current.ExtendedRange().Start)
	if err != nil {
		return selection.Selection{}, false, err
	}

	parents, err := p.Buffer.ParentLines(current)
	if err != nil {
		return selection.Selection{}, false, err
	}

	target := -1
	for _, pl := range parents {
		if pl.Line < current {
			target = pl.Line
		}
	}
	if target < 0 {
		return selection.Selection{}, false, nil
	}

	r, err := lineRegion(p.Buffer, target)
	if err != nil {
		return selection.Selection{}, false, err
	}
	return r.ToSelection(p.Current), true, nil
}

// Down moves to the first line enclosed by the current line.
func (Line) Down(p Params) (selection.Selection, bool, error) {
	current, err := p.Buffer.ByteToLine(p.Current.ExtendedRange().Start)
	if err != nil {
		return selection.Selection{}, false, err
	}

	child := current + 1
	if child >= p.Buffer.LenLines() {
		return selection.Selection{}, false, nil
	}

	parents, err := p.Buffer.ParentLines(child)
	if err != nil {
		return selection.Selection{}, false, err
	}
	for _, pl := range parents {
		if pl.Line != current {
			continue
		}
		r, err := lineRegion(p.Buffer, child)
		if err != nil {
			return selection.Selection{}, false, err
		}
		if r.Len() == 0 {
			break
		}
		return r.ToSelection(p.Current), true, nil
	}
	return selection.Selection{}, false, nil
}

// lineRegion returns the byte range of line including its newline.
func lineRegion(buf Buffer, line int) (Region, error) {
	start, err := buf.LineToByte(line)
	if err != nil {
		return Region{}, err
	}
	length, err := buf.LineLen(line)
	if err != nil {
		return Region{}, err
	}
	return NewRegion(start, start+length)
}
