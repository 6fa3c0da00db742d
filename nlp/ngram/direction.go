package ngram

import (
	"errors"
	"fmt"
)

var ErrUnknownDirection = errors.New("unknown output direction")

// Direction selects which end of a token the grams are anchored at.
type Direction int

const (
	// Front emits prefixes, left to right.
	Front Direction = iota + 1
	// Back emits suffixes, right to left.
	Back
	// Both alternates suffix and prefix for every gram size.
	Both
)

var directionLabels = map[Direction]string{
	Front: "front",
	Back:  "back",
	Both:  "both",
}

func (d Direction) String() string {
	if label, ok := directionLabels[d]; ok {
		return label
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection maps a configuration label to a Direction.
func ParseDirection(label string) (Direction, error) {
	for direction, l := range directionLabels {
		if l == label {
			return direction, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, label)
}
