// Package pinyin expands tokens written in Chinese characters into their
// romanized readings.
//
// For 中国 the filter emits zg (short form), zhongguo (full form) and, when a
// mix length is configured, forms such as zguo where the leading characters
// are abbreviated.
package pinyin

import (
	"log/slog"

	"github.com/future-architect/pinyintower/nlp"
)

const (
	DefaultEmitOriginal   = true
	DefaultFormat         = Both
	DefaultMinTermLength  = 2
	DefaultMixShortLength = 0

	TypeFullPinyin  = "full_pinyin"
	TypeShortPinyin = "short_pinyin"
	TypeBothPinyin  = "both_pinyin"
)

// Characters in this range are treated as Chinese.
const (
	minChineseRune = 0x4E00
	maxChineseRune = 0x29FA5
)

func IsChinese(r rune) bool {
	return r >= minChineseRune && r <= maxChineseRune
}

// CountChinese returns the number of Chinese characters in s.
func CountChinese(s string) int {
	count := 0
	for _, r := range s {
		if IsChinese(r) {
			count++
		}
	}
	return count
}

type Option struct {
	// EmitOriginal passes the source token through before its readings.
	EmitOriginal bool
	Format       Format
	// MinTermLength is the number of Chinese characters a token needs
	// before it is expanded. Values below 1 are treated as 1.
	MinTermLength int
	// MixShortLength enables mixed forms abbreviating up to this many
	// leading characters. 0 disables them.
	MixShortLength int
	Logger         *slog.Logger
}

// DefaultOption returns the settings used when a parameter is not configured.
func DefaultOption() Option {
	return Option{
		EmitOriginal:   DefaultEmitOriginal,
		Format:         DefaultFormat,
		MinTermLength:  DefaultMinTermLength,
		MixShortLength: DefaultMixShortLength,
	}
}

// Filter emits, for each source token, the original token (optionally) and
// then every distinct romanized variant of it.
//
// Variants keep the offsets, position length and position increment of the
// source token. The increment is not zeroed after the first variant, unlike
// the n-gram filter; positional consumers see each variant as advancing.
type Filter struct {
	input  nlp.TokenStream
	reader Reader
	option Option
	logger *slog.Logger

	cur *cursor
}

// cursor is the state of the source token being expanded:
// idle (nil) -> original emitted -> variants emitted -> idle.
type cursor struct {
	source       nlp.Token
	originalDone bool
	expanded     bool
	variants     []string
	variantType  string
	next         int
}

var _ nlp.TokenStream = &Filter{}

func NewFilter(input nlp.TokenStream, reader Reader, option Option) *Filter {
	if option.MinTermLength < 1 {
		option.MinTermLength = 1
	}
	if reader == nil {
		reader = DefaultReader()
	}
	logger := option.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{
		input:  input,
		reader: reader,
		option: option,
		logger: logger,
	}
}

// Next implements nlp.TokenStream.
func (f *Filter) Next() (nlp.Token, bool) {
	for {
		if f.cur == nil {
			source, ok := f.input.Next()
			if !ok {
				return nlp.Token{}, false
			}
			f.cur = &cursor{source: source}
		}
		c := f.cur
		if f.option.EmitOriginal && !c.originalDone {
			c.originalDone = true
			return c.source, true
		}
		if !c.expanded {
			c.expanded = true
			c.variants, c.variantType = f.expand(c.source.Text)
		}
		if c.next < len(c.variants) {
			token := c.source
			token.Text = c.variants[c.next]
			token.Type = c.variantType
			c.next++
			return token, true
		}
		f.cur = nil
	}
}

// expand computes the variants of text in sorted order, or nil when text has
// too few Chinese characters.
func (f *Filter) expand(text string) ([]string, string) {
	count := CountChinese(text)
	if count < f.option.MinTermLength {
		return nil, ""
	}
	readings := f.readings(text)

	var shortForms, fullForms Set
	var tokenType string
	switch f.option.Format {
	case Short:
		shortForms = ShortForms(readings)
		tokenType = TypeShortPinyin
	case Full:
		fullForms = FullForms(readings)
		tokenType = TypeFullPinyin
	default:
		shortForms = ShortForms(readings)
		fullForms = FullForms(readings)
		tokenType = TypeBothPinyin
	}

	variants := Set{}
	variants.Union(shortForms)
	variants.Union(fullForms)

	// mixing needs one full character after the abbreviated ones, and one
	// more when the plain short form is emitted anyway
	if f.option.MixShortLength > 0 {
		if shortForms == nil {
			if fullForms != nil && count > 1 {
				variants.Union(MixedForms(readings, f.option.MixShortLength))
			}
		} else if count > 2 {
			variants.Union(MixedForms(readings, f.option.MixShortLength))
		}
	}
	delete(variants, "")
	if len(variants) == 0 {
		return nil, ""
	}
	return variants.Sorted(), tokenType
}

// readings builds the candidate reading list of text. Empty readings are
// dropped; characters left without readings, or whose lookup fails, are left out.
func (f *Filter) readings(text string) [][]string {
	var result [][]string
	for _, r := range text {
		if !IsChinese(r) {
			continue
		}
		candidates, err := f.reader.Readings(r)
		if err != nil {
			f.logger.Warn("pinyin lookup failed", "char", string(r), "token", text, "error", err)
			continue
		}
		var kept []string
		for _, candidate := range candidates {
			if candidate != "" {
				kept = append(kept, candidate)
			}
		}
		if len(kept) > 0 {
			result = append(result, kept)
		}
	}
	return result
}

// Reset implements nlp.TokenStream.
func (f *Filter) Reset() {
	f.input.Reset()
	f.cur = nil
}
