package ngram

import (
	"github.com/future-architect/pinyintower/nlp"
)

// FilterName is the name the n-gram filter is registered under.
const FilterName = "pinyin_ngram"

func init() {
	nlp.RegisterFilter(FilterName, Factory)
}

// Factory reads minGram, maxGram and direction (outputDirection is accepted as
// an alias) and rejects anything else.
func Factory(params nlp.Params) (nlp.FilterConstructor, error) {
	minGram, err := params.Int("minGram", DefaultMinGram)
	if err != nil {
		return nil, err
	}
	maxGram, err := params.Int("maxGram", DefaultMaxGram)
	if err != nil {
		return nil, err
	}
	direction, err := ParseDirection(params.StringAlias("direction", "outputDirection", DefaultDirection.String()))
	if err != nil {
		return nil, err
	}
	if err := params.CheckEmpty(); err != nil {
		return nil, err
	}
	// validate now so a bad configuration never reaches a stream
	if _, err := NewFilter(nil, minGram, maxGram, direction); err != nil {
		return nil, err
	}
	return func(input nlp.TokenStream) nlp.TokenStream {
		filter, _ := NewFilter(input, minGram, maxGram, direction)
		return filter
	}, nil
}
