// Package selection provides the editor's active selection.
//
// Selections use an anchor/head model where:
//   - Anchor: the end of the range that stays put
//   - Head: the end the cursor sits on
//
// When Anchor == Head the selection is a bare cursor. A selection can extend
// forward (head > anchor) or backward (head < anchor).
//
// An extension gesture is modelled by Extend: the range selected when the
// gesture started is remembered as Initial, and every later reposition
// spans both Initial and the new target.
//
// Selections are immutable values. Navigation never edits a selection in
// place; it produces a replacement through Reposition, which keeps the
// shape (direction and extension state) of the selection it replaces.
package selection
