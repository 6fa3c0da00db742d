package pinyintower

import (
	"github.com/future-architect/pinyintower/nlp"
	_ "github.com/future-architect/pinyintower/nlp/english"
	_ "github.com/future-architect/pinyintower/nlp/japanese"
	"github.com/future-architect/pinyintower/nlp/ngram"
	"github.com/future-architect/pinyintower/nlp/pinyin"
	_ "github.com/future-architect/pinyintower/nlp/whitespace"
)

const (
	IndexAnalyzerName = "pinyin_index"
	QueryAnalyzerName = "pinyin_query"
)

func init() {
	// indexing: 中国 -> 中国, zg, zhongguo, then every prefix of each
	index, err := nlp.NewAnalyzer(IndexAnalyzerName, nlp.TokenizerWhitespace,
		nlp.FilterSpec{
			Type: pinyin.FilterName,
			Params: map[string]string{
				"outputFormat": "both",
				"mixShort":     "2",
			},
		},
		nlp.FilterSpec{Type: "lowercase"},
		nlp.FilterSpec{
			Type: ngram.FilterName,
			Params: map[string]string{
				"minGram":   "1",
				"maxGram":   "20",
				"direction": "front",
			},
		},
	)
	if err != nil {
		panic(err)
	}
	nlp.RegisterAnalyzer(index)

	query, err := nlp.NewAnalyzer(QueryAnalyzerName, nlp.TokenizerWhitespace, nlp.FilterSpec{Type: "lowercase"})
	if err != nil {
		panic(err)
	}
	nlp.RegisterAnalyzer(query)
}
