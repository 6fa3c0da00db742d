package pinyin

import (
	"fmt"
	"log/slog"

	"github.com/future-architect/pinyintower/nlp"
)

// FilterName is the name the pinyin filter is registered under.
const FilterName = "pinyin_transform"

func init() {
	nlp.RegisterFilter(FilterName, Factory)
}

// Factory reads outOriginal, outputFormat, minTerm and mixShort and rejects
// anything else. Filters it creates use DefaultReader.
func Factory(params nlp.Params) (nlp.FilterConstructor, error) {
	return NewFactory(DefaultReader(), slog.Default())(params)
}

// NewFactory is Factory with a custom reading source and logger.
func NewFactory(reader Reader, logger *slog.Logger) nlp.FilterFactory {
	return func(params nlp.Params) (nlp.FilterConstructor, error) {
		option, err := parseOption(params)
		if err != nil {
			return nil, err
		}
		option.Logger = logger
		return func(input nlp.TokenStream) nlp.TokenStream {
			return NewFilter(input, reader, option)
		}, nil
	}
}

func parseOption(params nlp.Params) (Option, error) {
	option := DefaultOption()
	var err error
	option.EmitOriginal, err = params.Bool("outOriginal", DefaultEmitOriginal)
	if err != nil {
		return option, err
	}
	option.Format, err = ParseFormat(params.String("outputFormat", DefaultFormat.String()))
	if err != nil {
		return option, err
	}
	option.MinTermLength, err = params.Int("minTerm", DefaultMinTermLength)
	if err != nil {
		return option, err
	}
	if option.MinTermLength < 1 {
		return option, fmt.Errorf("minTerm must be greater than zero: %d", option.MinTermLength)
	}
	option.MixShortLength, err = params.Int("mixShort", DefaultMixShortLength)
	if err != nil {
		return option, err
	}
	if option.MixShortLength < 0 {
		return option, fmt.Errorf("mixShort must not be negative: %d", option.MixShortLength)
	}
	if err := params.CheckEmpty(); err != nil {
		return option, err
	}
	return option, nil
}
