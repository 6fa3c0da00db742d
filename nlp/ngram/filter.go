// Package ngram expands every token into its prefixes and/or suffixes.
//
// Grams are cut in UTF-16 code units while the stopping condition counts code
// points, so a token containing supplementary-plane characters can be cut in
// the middle of a surrogate pair. The broken half decodes to U+FFFD. Existing
// indexes depend on this behavior and it is kept as is.
package ngram

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/future-architect/pinyintower/nlp"
)

const (
	DefaultMinGram   = 1
	DefaultMaxGram   = 10
	DefaultDirection = Both

	TypeNGram = "ngram"
)

var ErrInvalidGramSize = errors.New("invalid gram size")

// Filter emits, for every source token, the grams of size minGram..maxGram
// anchored according to its Direction. All grams of one source token share
// its position: only the first carries the position increment.
type Filter struct {
	input     nlp.TokenStream
	minGram   int
	maxGram   int
	direction Direction

	cur         *cursor
	savePosIncr int
}

// cursor is the state of the source token being expanded.
type cursor struct {
	buffer     []uint16
	codePoints int
	gramSize   int
	posLen     int
	// backDone is set between the back and the front gram of one size in Both mode.
	backDone bool
}

var _ nlp.TokenStream = &Filter{}

func NewFilter(input nlp.TokenStream, minGram, maxGram int, direction Direction) (*Filter, error) {
	if minGram < 1 {
		return nil, fmt.Errorf("%w: minGram must be greater than zero", ErrInvalidGramSize)
	}
	if minGram > maxGram {
		return nil, fmt.Errorf("%w: minGram must not be greater than maxGram", ErrInvalidGramSize)
	}
	if _, ok := directionLabels[direction]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownDirection, direction)
	}
	return &Filter{
		input:     input,
		minGram:   minGram,
		maxGram:   maxGram,
		direction: direction,
	}, nil
}

// Next implements nlp.TokenStream.
func (f *Filter) Next() (nlp.Token, bool) {
	for {
		if f.cur == nil {
			source, ok := f.input.Next()
			if !ok {
				return nlp.Token{}, false
			}
			f.cur = &cursor{
				buffer:     utf16.Encode([]rune(source.Text)),
				codePoints: utf8.RuneCountInString(source.Text),
				gramSize:   f.minGram,
				posLen:     source.PositionLength,
			}
			f.savePosIncr += source.PositionIncrement
		}
		c := f.cur
		if c.gramSize <= f.maxGram && c.gramSize <= c.codePoints {
			return f.emit(c), true
		}
		f.cur = nil
	}
}

func (f *Filter) emit(c *cursor) nlp.Token {
	size := c.gramSize
	charLength := len(c.buffer)
	var start int
	switch f.direction {
	case Front:
		c.gramSize++
	case Back:
		start = charLength - size
		c.gramSize++
	default:
		// back(n) first and keep the size, then front(n) and advance
		if !c.backDone {
			start = charLength - size
			c.backDone = true
		} else {
			c.backDone = false
			c.gramSize++
		}
	}
	token := nlp.Token{
		Text:              string(utf16.Decode(c.buffer[start : start+size])),
		StartOffset:       start,
		EndOffset:         start + size,
		PositionIncrement: f.savePosIncr,
		PositionLength:    c.posLen,
		Type:              TypeNGram,
	}
	f.savePosIncr = 0
	return token
}

// Reset implements nlp.TokenStream.
func (f *Filter) Reset() {
	f.input.Reset()
	f.cur = nil
	f.savePosIncr = 0
}
