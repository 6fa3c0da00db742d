package english

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/kljensen/snowball"

	"github.com/future-architect/pinyintower/nlp"
)

const Language = nlp.TokenizerEnglish

var stopWords = map[string]bool{}

func init() {
	// https://github.com/stopwords-iso/stopwords-en (short list)
	for _, word := range strings.Fields(`a about above after again against all am an and any are as at be because
		been before being below between both but by can did do does doing down during each few for from further
		had has have having he her here hers herself him himself his how i if in into is it its itself just me
		more most my myself no nor not now of off on once only or other our ours ourselves out over own same she
		should so some such than that the their theirs them themselves then there these they this those through
		to too under until up very was we were what when where which while who whom why will with you your yours
		yourself yourselves`) {
		stopWords[word] = true
	}
	nlp.RegisterTokenizer(Language, englishSplitter)
}

// englishSplitter lowercases content, splits it on anything that is not a
// letter or digit, drops stop words and stems what is left.
func englishSplitter(content string) []nlp.Token {
	var result []nlp.Token
	var word []rune
	start := 0
	offset := 0
	skipped := 0
	flush := func() {
		if len(word) == 0 {
			return
		}
		text := strings.ToLower(string(word))
		word = word[:0]
		if stopWords[text] {
			skipped++
			return
		}
		stemmed, err := snowball.Stem(text, "english", true)
		if err != nil || stemmed == "" {
			stemmed = text
		}
		token := nlp.NewWordToken(stemmed, start, offset)
		token.PositionIncrement += skipped
		skipped = 0
		result = append(result, token)
	}
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if len(word) == 0 {
				start = offset
			}
			word = append(word, r)
		} else {
			flush()
		}
		offset += utf16.RuneLen(r)
	}
	flush()
	return result
}

// StemWord normalizes a query word the same way the tokenizer does.
func StemWord(word string) string {
	word = strings.ToLower(word)
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
