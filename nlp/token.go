package nlp

import (
	"unicode/utf16"
)

// Token types produced by tokenizers in this module. Filters define their own.
const (
	TypeWord = "word"
)

// Token is the unit flowing through an analysis chain.
//
// Offsets count characters as UTF-16 code units, which is also the unit the
// n-gram filter cuts text in.
type Token struct {
	Text              string
	StartOffset       int
	EndOffset         int
	PositionIncrement int
	PositionLength    int
	Type              string
}

// TokenStream produces tokens on demand.
//
// Next returns false when the stream is exhausted. Exhaustion is the normal
// terminal signal, not an error. Reset rewinds the stream to its first token;
// filters reset their input as well as their own state.
//
// Implementations are stateful and must not be shared between goroutines.
type TokenStream interface {
	Next() (Token, bool)
	Reset()
}

// NewWordToken creates a tokenizer output token with increment 1 and length 1.
func NewWordToken(text string, start, end int) Token {
	return Token{
		Text:              text,
		StartOffset:       start,
		EndOffset:         end,
		PositionIncrement: 1,
		PositionLength:    1,
		Type:              TypeWord,
	}
}

// CharLength returns the length of s in UTF-16 code units.
func CharLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// SliceStream replays a fixed list of tokens. It is the upstream used by
// tokenizers and tests.
type SliceStream struct {
	tokens []Token
	next   int
}

var _ TokenStream = &SliceStream{}

func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Next implements TokenStream.
func (s *SliceStream) Next() (Token, bool) {
	if s.next >= len(s.tokens) {
		return Token{}, false
	}
	token := s.tokens[s.next]
	s.next++
	return token, true
}

// Reset implements TokenStream.
func (s *SliceStream) Reset() {
	s.next = 0
}

// Drain pulls every remaining token out of ts.
func Drain(ts TokenStream) []Token {
	var result []Token
	for {
		token, ok := ts.Next()
		if !ok {
			return result
		}
		result = append(result, token)
	}
}
