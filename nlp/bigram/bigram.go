package bigram

import (
	"unicode"
	"unicode/utf16"

	"github.com/future-architect/pinyintower/nlp"
)

const Language = "bigram"

func init() {
	nlp.RegisterTokenizer(Language, bigramSplitter)
}

// bigramSplitter emits overlapping two-character tokens inside every run of
// non-space characters. A run of one character is emitted as is.
func bigramSplitter(content string) []nlp.Token {
	var result []nlp.Token
	var run []rune
	var offsets []int
	flush := func() {
		switch len(run) {
		case 0:
		case 1:
			result = append(result, nlp.NewWordToken(string(run), offsets[0], offsets[1]))
		default:
			for i := 0; i < len(run)-1; i++ {
				result = append(result, nlp.NewWordToken(string(run[i:i+2]), offsets[i], offsets[i+2]))
			}
		}
		run = run[:0]
		offsets = offsets[:0]
	}
	offset := 0
	for _, r := range content {
		width := utf16.RuneLen(r)
		if unicode.IsSpace(r) {
			flush()
		} else {
			if len(offsets) == 0 {
				offsets = append(offsets, offset)
			}
			run = append(run, r)
			offsets = append(offsets, offset+width)
		}
		offset += width
	}
	flush()
	return result
}
