package nlp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/future-architect/pinyintower/nlp"
)

func TestAnalyzer_TokenizeToMap(t *testing.T) {
	analyzer, err := nlp.NewAnalyzer("map", nlp.TokenizerWhitespace, nlp.FilterSpec{
		Type:   "pinyin_transform",
		Params: map[string]string{"outputFormat": "short"},
	}, nlp.FilterSpec{
		Type:   "pinyin_ngram",
		Params: map[string]string{"direction": "front", "maxGram": "2"},
	})
	require.Nil(t, err)

	terms, count := analyzer.TokenizeToMap("中国 a 中国")
	// 中/中国 at 0, z/zg at 1, a at 2, 中/中国 at 3, z/zg at 4
	assert.Equal(t, 5, count)
	require.Contains(t, terms, "zg")
	assert.Equal(t, []uint32{1, 4}, terms["zg"].Positions)
	assert.Equal(t, []uint32{0, 3}, terms["中国"].Positions)
	require.Contains(t, terms, "a")
	assert.Equal(t, []uint32{2}, terms["a"].Positions)
}

func TestAnalyzer_Positions(t *testing.T) {
	analyzer, err := nlp.NewAnalyzer("positions", nlp.TokenizerWhitespace, nlp.FilterSpec{
		Type:   "pinyin_ngram",
		Params: map[string]string{"direction": "front", "maxGram": "3"},
	})
	require.Nil(t, err)
	assert.Equal(t, [][]string{{"a", "ab", "abc"}, {"x"}}, analyzer.Positions("abc x"))
	assert.Empty(t, analyzer.Positions(""))
}

func TestNewAnalyzer_UnknownTokenizer(t *testing.T) {
	_, err := nlp.NewAnalyzer("broken", "klingon")
	assert.ErrorIs(t, err, nlp.ErrUnknownTokenizer)
}
