package selectmode

import "strings"

// Direction names a navigation gesture.
type Direction uint8

const (
	Current Direction = iota
	Up
	Down
	Left
	Right
	First
	Last
	Next
	Previous
)

var directionNames = [...]string{
	Current:  "current",
	Up:       "up",
	Down:     "down",
	Left:     "left",
	Right:    "right",
	First:    "first",
	Last:     "last",
	Next:     "next",
	Previous: "previous",
}

// String returns the direction name.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(s)
	if s == "prev" {
		return Previous, true
	}
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true
		}
	}
	return Current, false
}
