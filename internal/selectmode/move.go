package selectmode

import "github.com/dshills/strata/internal/engine/selection"

// Move computes the selection reached from p.Current in direction dir.
// ok is false when there is no further movement in that direction.
func Move(m Mode, p Params, dir Direction) (selection.Selection, bool, error) {
	switch dir {
	case Up:
		return m.Up(p)
	case Down:
		if d, ok := m.(Downer); ok {
			return d.Down(p)
		}
		return next(m, p)
	case Next, Right:
		return next(m, p)
	case Previous, Left:
		return previous(m, p)
	case First:
		return first(m, p)
	case Last:
		return last(m, p)
	case Current:
		return current(m, p)
	default:
		return selection.Selection{}, false, nil
	}
}

// next selects the first region starting at or after the end of the
// current range.
func next(m Mode, p Params) (selection.Selection, bool, error) {
	cur := p.Current.ExtendedRange()

	var head Region
	haveHead := false
	for r, err := range m.Iter(p) {
		if err != nil {
			return selection.Selection{}, false, err
		}
		if !haveHead {
			head, haveHead = r, true
		}
		if r.Start >= cur.End && r.Range() != cur {
			return r.ToSelection(p.Current), true, nil
		}
	}

	if p.Context.Wrap && haveHead && head.Range() != cur {
		return head.ToSelection(p.Current), true, nil
	}
	return selection.Selection{}, false, nil
}

// previous selects the last region ending at or before the start of the
// current range.
func previous(m Mode, p Params) (selection.Selection, bool, error) {
	cur := p.Current.ExtendedRange()

	var found, tail Region
	haveFound, haveTail := false, false
	for r, err := range m.Iter(p) {
		if err != nil {
			return selection.Selection{}, false, err
		}
		tail, haveTail = r, true
		if r.End <= cur.Start && r.Range() != cur {
			found, haveFound = r, true
		}
	}

	switch {
	case haveFound:
		return found.ToSelection(p.Current), true, nil
	case p.Context.Wrap && haveTail && tail.Range() != cur:
		return tail.ToSelection(p.Current), true, nil
	}
	return selection.Selection{}, false, nil
}

func first(m Mode, p Params) (selection.Selection, bool, error) {
	for r, err := range m.Iter(p) {
		if err != nil {
			return selection.Selection{}, false, err
		}
		return r.ToSelection(p.Current), true, nil
	}
	return selection.Selection{}, false, nil
}

func last(m Mode, p Params) (selection.Selection, bool, error) {
	var tail Region
	found := false
	for r, err := range m.Iter(p) {
		if err != nil {
			return selection.Selection{}, false, err
		}
		tail, found = r, true
	}
	if !found {
		return selection.Selection{}, false, nil
	}
	return tail.ToSelection(p.Current), true, nil
}

// current selects the region under the cursor. A cursor past the last
// region snaps to the last region starting before it.
func current(m Mode, p Params) (selection.Selection, bool, error) {
	c := p.Current.Cursor(p.CursorDirection)

	var before Region
	haveBefore := false
	for r, err := range m.Iter(p) {
		if err != nil {
			return selection.Selection{}, false, err
		}
		if r.Contains(c) {
			return r.ToSelection(p.Current), true, nil
		}
		if r.Start > c {
			break
		}
		before, haveBefore = r, true
	}

	if !haveBefore {
		return selection.Selection{}, false, nil
	}
	return before.ToSelection(p.Current), true, nil
}
