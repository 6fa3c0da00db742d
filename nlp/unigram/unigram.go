package unigram

import (
	"unicode"
	"unicode/utf16"

	"github.com/future-architect/pinyintower/nlp"
)

const Language = "unigram"

func init() {
	nlp.RegisterTokenizer(Language, unigramSplitter)
}

// unigramSplitter emits every non-space character as its own token.
func unigramSplitter(content string) []nlp.Token {
	var result []nlp.Token
	offset := 0
	for _, r := range content {
		width := utf16.RuneLen(r)
		if !unicode.IsSpace(r) {
			result = append(result, nlp.NewWordToken(string(r), offset, offset+width))
		}
		offset += width
	}
	return result
}
