package gesture

import (
	"strings"
)

// Direction is one of the four primitive screen directions.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

var directionNames = [...]string{
	Left:  "left",
	Right: "right",
	Up:    "up",
	Down:  "down",
}

// String returns the lowercase name used in gesture tokens.
func (d Direction) String() string {
	if d < Left || d > Down {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection converts a lowercase direction name back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// Horizontal reports whether d lies on the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// tokenSeparator joins directions inside a gesture token.
const tokenSeparator = " then "

// JoinToken renders a direction sequence as a gesture token,
// e.g. "down then right".
func JoinToken(dirs []Direction) string {
	return strings.Join(directionNamesOf(dirs), tokenSeparator)
}

// SplitToken parses a gesture token into its directions.
func SplitToken(token string) ([]Direction, bool) {
	if token == "" {
		return nil, false
	}
	parts := strings.Split(token, tokenSeparator)
	dirs := make([]Direction, 0, len(parts))
	for _, p := range parts {
		d, ok := ParseDirection(p)
		if !ok {
			return nil, false
		}
		dirs = append(dirs, d)
	}
	return dirs, true
}

func directionNamesOf(dirs []Direction) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}
