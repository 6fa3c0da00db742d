package whitespace

import (
	"unicode"
	"unicode/utf16"

	"github.com/future-architect/pinyintower/nlp"
)

const Language = nlp.TokenizerWhitespace

func init() {
	nlp.RegisterTokenizer(Language, whitespaceSplitter)
}

// whitespaceSplitter splits on Unicode white space and keeps everything else,
// case included.
func whitespaceSplitter(content string) []nlp.Token {
	var result []nlp.Token
	var word []rune
	offset := 0
	start := 0
	flush := func() {
		if len(word) > 0 {
			result = append(result, nlp.NewWordToken(string(word), start, offset))
			word = word[:0]
		}
	}
	for _, r := range content {
		if unicode.IsSpace(r) {
			flush()
		} else {
			if len(word) == 0 {
				start = offset
			}
			word = append(word, r)
		}
		offset += utf16.RuneLen(r)
	}
	flush()
	return result
}
