// Package selectmode defines selection modes: strategies that split a buffer
// into selectable regions and move between them.
//
// Every mode implements Mode:
//
//   - Name identifies the mode on the status line.
//   - Iter lazily yields every region of the buffer in ascending start
//     order, without overlaps or duplicates. Calling it again restarts the
//     enumeration.
//   - Up moves to the enclosing unit, or reports no movement.
//
// Other directions are handled uniformly by Move, which derives them from
// Iter unless the mode supplies its own implementation through an optional
// interface such as Downer.
//
// Modes are pure: they read the Buffer passed in Params for the duration of
// a call and never retain or modify it. "No movement" is reported as
// ok == false with a nil error. Errors are always buffer failures, passed
// through unchanged so callers can match them with errors.Is.
//
// Basic usage:
//
//	p := selectmode.Params{Buffer: buf, Current: sel}
//	for r, err := range selectmode.Line{}.Iter(p) {
//	    ...
//	}
//	next, ok, err := selectmode.Move(selectmode.Line{}, p, selectmode.Up)
package selectmode
