package pinyin

import (
	"sort"

	"github.com/rivo/uniseg"
)

// maxMixDepth caps how many leading characters MixedForms abbreviates.
const maxMixDepth = 10

// Set is a set of romanized strings.
type Set map[string]struct{}

func (s Set) Add(value string) {
	s[value] = struct{}{}
}

func (s Set) Union(other Set) {
	for value := range other {
		s[value] = struct{}{}
	}
}

func (s Set) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	result := make([]string, 0, len(s))
	for value := range s {
		result = append(result, value)
	}
	sort.Strings(result)
	return result
}

// initial returns the first grapheme of a reading.
func initial(reading string) string {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(reading, -1)
	return cluster
}

func fullReading(reading string) string {
	return reading
}

// fold builds the cross product of the per-character readings left to right.
// form decides, for the character at index i, how a reading is rendered.
// The accumulator is replaced at every step, so duplicates never pile up.
func fold(readings [][]string, form func(i int) func(string) string) Set {
	acc := Set{"": {}}
	for i, candidates := range readings {
		render := form(i)
		next := make(Set, len(acc)*len(candidates))
		for prefix := range acc {
			for _, reading := range candidates {
				next.Add(prefix + render(reading))
			}
		}
		acc = next
	}
	if len(readings) == 0 {
		return Set{}
	}
	return acc
}

// FullForms returns every combination of whole readings, e.g. zhongguo.
func FullForms(readings [][]string) Set {
	return fold(readings, func(int) func(string) string {
		return fullReading
	})
}

// ShortForms returns every combination of initials, e.g. zg.
func ShortForms(readings [][]string) Set {
	return fold(readings, func(int) func(string) string {
		return initial
	})
}

// MixedForms returns the forms where the first n characters are abbreviated
// and the rest are whole readings, for every n in 1..depth. depth is limited
// to len(readings)-1 and to 10.
func MixedForms(readings [][]string, depth int) Set {
	result := Set{}
	if depth <= 0 {
		return result
	}
	if depth > len(readings)-1 {
		depth = len(readings) - 1
	}
	if depth > maxMixDepth {
		depth = maxMixDepth
	}
	for n := 1; n <= depth; n++ {
		abbreviated := n
		result.Union(fold(readings, func(i int) func(string) string {
			if i < abbreviated {
				return initial
			}
			return fullReading
		}))
	}
	return result
}
