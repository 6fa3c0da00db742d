package pinyin

import (
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Reader returns the candidate readings of one character: lowercase, without
// tone marks. A character without readings yields an empty slice.
type Reader interface {
	Readings(r rune) ([]string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(r rune) ([]string, error)

func (f ReaderFunc) Readings(r rune) ([]string, error) {
	return f(r)
}

// MapReader is a fixed dictionary of readings.
type MapReader map[rune][]string

func (m MapReader) Readings(r rune) ([]string, error) {
	return m[r], nil
}

type dictReader struct {
	args gopinyin.Args
}

// DefaultReader looks readings up in the go-pinyin dictionary with every
// heteronym reading enabled.
func DefaultReader() Reader {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Normal
	args.Heteronym = true
	args.Fallback = func(r rune, a gopinyin.Args) []string {
		return nil
	}
	return &dictReader{args: args}
}

func (d *dictReader) Readings(r rune) ([]string, error) {
	// tone stripping maps different tones of one syllable to the same string
	readings := gopinyin.SinglePinyin(r, d.args)
	result := make([]string, 0, len(readings))
	seen := make(map[string]bool, len(readings))
	for _, reading := range readings {
		reading = strings.ToLower(reading)
		if reading == "" || seen[reading] {
			continue
		}
		seen[reading] = true
		result = append(result, reading)
	}
	return result, nil
}
