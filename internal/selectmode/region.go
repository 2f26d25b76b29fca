package selectmode

import (
	"errors"
	"fmt"

	"github.com/dshills/strata/internal/engine/selection"
)

// ErrInvalidRegion is returned when a region would end before it starts.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a half-open byte interval [Start, End) naming one candidate
// selection. It does not own buffer content.
type Region struct {
	Start int
	End   int
}

// NewRegion creates a region. Intervals with start > end are rejected.
func NewRegion(start, end int) (Region, error) {
	if start > end {
		return Region{}, fmt.Errorf("[%d:%d): %w", start, end, ErrInvalidRegion)
	}
	return Region{Start: start, End: end}, nil
}

// Len returns the region length in bytes.
func (r Region) Len() int {
	return r.End - r.Start
}

// Contains returns true if offset is within the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Range returns the region as a selection range.
func (r Region) Range() selection.Range {
	return selection.NewRange(r.Start, r.End)
}

// ToSelection places current's shape onto this region.
func (r Region) ToSelection(current selection.Selection) selection.Selection {
	return current.Reposition(r.Range())
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
