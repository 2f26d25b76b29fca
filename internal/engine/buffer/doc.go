// Package buffer provides the text buffer that selection modes navigate.
//
// A Buffer stores its text together with an index of line start offsets, so
// conversions between byte offsets and line indices are O(log n). It also
// answers the parent-line query: which lines syntactically enclose a given
// line, derived from a syntax.ScopeTree for the buffer's language.
//
// Line Counting:
//
// LenLines counts newlines plus one. A buffer whose text ends with a newline
// therefore reports a final line of zero length; callers that enumerate
// lines are expected to skip it.
//
//	buf := buffer.NewBufferFromString("a\nb\n")
//	buf.LenLines()   // 3
//	buf.LineLen(2)   // 0, nil
//
// Line endings are normalized to LF when text enters the buffer. The style
// found in the original input is kept and reported by LineEnding.
//
// Thread Safety:
//
// All Buffer methods are safe for concurrent use. Read operations acquire a
// read lock, edits acquire the write lock and bump the revision id.
package buffer
