package pinyin

import (
	"errors"
	"fmt"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Format selects which romanized forms are emitted.
type Format int

const (
	// Full emits whole readings, e.g. zhongguo.
	Full Format = iota + 1
	// Short emits initials, e.g. zg.
	Short
	// Both emits full and short forms.
	Both
)

var formatLabels = map[Format]string{
	Full:  "full",
	Short: "short",
	Both:  "both",
}

func (f Format) String() string {
	if label, ok := formatLabels[f]; ok {
		return label
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a configuration label to a Format.
func ParseFormat(label string) (Format, error) {
	for format, l := range formatLabels {
		if l == label {
			return format, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, label)
}
