package pinyin

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/future-architect/pinyintower/nlp"
	"github.com/future-architect/pinyintower/nlp/ngram"
	_ "github.com/future-architect/pinyintower/nlp/whitespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReader = MapReader{
	'科': {"ke"},
	'华': {"hua"},
	'万': {"wan"},
	'象': {"xiang"},
	'中': {"zhong"},
	'国': {"guo"},
	'人': {"ren"},
	'行': {"xing", "hang"},
	'长': {"chang", "zhang"},
}

func tokenize(t *testing.T, content string) nlp.TokenStream {
	t.Helper()
	tokenizer, err := nlp.FindTokenizer(nlp.TokenizerWhitespace)
	require.Nil(t, err)
	return tokenizer.TokenStream(content)
}

func texts(tokens []nlp.Token) []string {
	result := make([]string, len(tokens))
	for i, token := range tokens {
		result[i] = token.Text
	}
	return result
}

func TestFilter_BothWithMix(t *testing.T) {
	filter := NewFilter(tokenize(t, "科华万象 hello"), testReader, Option{
		EmitOriginal:   false,
		Format:         Both,
		MinTermLength:  2,
		MixShortLength: 3,
	})
	tokens := nlp.Drain(filter)
	assert.ElementsMatch(t, []string{
		"khwx",
		"kehuawanxiang",
		"khuawanxiang",
		"khwanxiang",
		"khwxiang",
	}, texts(tokens))
	for _, token := range tokens {
		assert.Equal(t, TypeBothPinyin, token.Type)
		assert.Equal(t, 0, token.StartOffset)
		assert.Equal(t, 4, token.EndOffset)
		assert.Equal(t, 1, token.PositionLength)
	}
}

func TestFilter_EmitOriginalFirst(t *testing.T) {
	filter := NewFilter(tokenize(t, "中国 hello 人"), testReader, DefaultOption())
	tokens := nlp.Drain(filter)
	require.Len(t, tokens, 5)

	assert.Equal(t, "中国", tokens[0].Text)
	assert.Equal(t, nlp.TypeWord, tokens[0].Type)
	assert.ElementsMatch(t, []string{"zg", "zhongguo"}, texts(tokens[1:3]))
	assert.Equal(t, TypeBothPinyin, tokens[1].Type)

	// below minTerm: only the original
	assert.Equal(t, "hello", tokens[3].Text)
	assert.Equal(t, "人", tokens[4].Text)
	assert.Equal(t, nlp.TypeWord, tokens[4].Type)
}

func TestFilter_BelowMinTermWithoutOriginal(t *testing.T) {
	filter := NewFilter(tokenize(t, "人 hello"), testReader, Option{
		Format:        Both,
		MinTermLength: 2,
	})
	_, ok := filter.Next()
	assert.False(t, ok)
}

func TestFilter_MinTermLengthClamped(t *testing.T) {
	filter := NewFilter(tokenize(t, "人"), testReader, Option{
		Format:        Full,
		MinTermLength: 0,
	})
	tokens := nlp.Drain(filter)
	assert.Equal(t, []string{"ren"}, texts(tokens))
	assert.Equal(t, TypeFullPinyin, tokens[0].Type)
}

func TestFilter_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		mix      int
		content  string
		want     []string
		wantType string
	}{
		{
			name:     "full",
			format:   Full,
			content:  "中国人",
			want:     []string{"zhongguoren"},
			wantType: TypeFullPinyin,
		},
		{
			name:     "short",
			format:   Short,
			content:  "中国人",
			want:     []string{"zgr"},
			wantType: TypeShortPinyin,
		},
		{
			name:     "unknown format falls back to both",
			format:   Format(99),
			content:  "中国",
			want:     []string{"zg", "zhongguo"},
			wantType: TypeBothPinyin,
		},
		{
			name:     "heteronyms",
			format:   Both,
			content:  "行长",
			want:     []string{"xc", "xz", "hc", "hz", "xingchang", "xingzhang", "hangchang", "hangzhang"},
			wantType: TypeBothPinyin,
		},
		{
			name:     "full with mix on two chars",
			format:   Full,
			mix:      1,
			content:  "中国",
			want:     []string{"zhongguo", "zguo"},
			wantType: TypeFullPinyin,
		},
		{
			name:     "both with mix needs three chars",
			format:   Both,
			mix:      1,
			content:  "中国",
			want:     []string{"zg", "zhongguo"},
			wantType: TypeBothPinyin,
		},
		{
			name:     "short with mix on three chars",
			format:   Short,
			mix:      2,
			content:  "中国人",
			want:     []string{"zgr", "zguoren", "zgren"},
			wantType: TypeShortPinyin,
		},
		{
			name:     "non chinese characters are ignored",
			format:   Full,
			content:  "中a国1",
			want:     []string{"zhongguo"},
			wantType: TypeFullPinyin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewFilter(tokenize(t, tt.content), testReader, Option{
				Format:         tt.format,
				MinTermLength:  2,
				MixShortLength: tt.mix,
			})
			tokens := nlp.Drain(filter)
			assert.ElementsMatch(t, tt.want, texts(tokens))
			for _, token := range tokens {
				assert.Equal(t, tt.wantType, token.Type)
			}
		})
	}
}

// Every variant repeats the source increment instead of stacking on one
// position. This mirrors long-standing behavior and is not a guarantee.
func TestFilter_VariantsKeepSourceIncrement(t *testing.T) {
	source := nlp.NewWordToken("中国", 3, 5)
	source.PositionIncrement = 2
	filter := NewFilter(nlp.NewSliceStream([]nlp.Token{source}), testReader, DefaultOption())
	tokens := nlp.Drain(filter)
	require.Len(t, tokens, 3)
	for _, token := range tokens {
		assert.Equal(t, 2, token.PositionIncrement)
		assert.Equal(t, 3, token.StartOffset)
		assert.Equal(t, 5, token.EndOffset)
	}
}

func TestFilter_LookupFailureIsLoggedAndSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reader := ReaderFunc(func(r rune) ([]string, error) {
		if r == '国' {
			return nil, errors.New("unsupported combination")
		}
		return testReader.Readings(r)
	})
	filter := NewFilter(tokenize(t, "中国人"), reader, Option{
		Format:        Full,
		MinTermLength: 2,
		Logger:        logger,
	})
	assert.Equal(t, []string{"zhongren"}, texts(nlp.Drain(filter)))
	assert.Contains(t, buf.String(), "pinyin lookup failed")
	assert.Contains(t, buf.String(), "unsupported combination")
}

func TestFilter_CharactersWithoutReadingsAreSkipped(t *testing.T) {
	filter := NewFilter(tokenize(t, "中丐国"), testReader, Option{
		Format:        Full,
		MinTermLength: 2,
	})
	assert.Equal(t, []string{"zhongguo"}, texts(nlp.Drain(filter)))
}

func TestFilter_EmptyReadingsAreDropped(t *testing.T) {
	reader := MapReader{
		'中': {""},
		'国': {"", "guo"},
		'人': {""},
	}
	filter := NewFilter(tokenize(t, "中国人 中人"), reader, Option{
		Format:        Full,
		MinTermLength: 2,
	})
	tokens := nlp.Drain(filter)
	assert.Equal(t, []string{"guo"}, texts(tokens))
	for _, token := range tokens {
		assert.NotEmpty(t, token.Text)
	}
}

func TestFilter_NoReadingsAtAll(t *testing.T) {
	filter := NewFilter(tokenize(t, "丐丑"), testReader, Option{
		EmitOriginal:  true,
		Format:        Both,
		MinTermLength: 2,
	})
	assert.Equal(t, []string{"丐丑"}, texts(nlp.Drain(filter)))
}

func TestFilter_Reset(t *testing.T) {
	filter := NewFilter(tokenize(t, "科华万象 中国人 hello 行长"), testReader, Option{
		EmitOriginal:   true,
		Format:         Both,
		MinTermLength:  2,
		MixShortLength: 2,
	})
	first := nlp.Drain(filter)
	require.NotEmpty(t, first)

	filter.Reset()
	assert.Equal(t, first, nlp.Drain(filter))

	filter.Reset()
	for i := 0; i < 3; i++ {
		_, ok := filter.Next()
		require.True(t, ok)
	}
	filter.Reset()
	assert.Equal(t, first, nlp.Drain(filter))
}

func TestFilter_DefaultReader(t *testing.T) {
	filter := NewFilter(tokenize(t, "中国"), nil, DefaultOption())
	got := texts(nlp.Drain(filter))
	assert.Contains(t, got, "中国")
	assert.Contains(t, got, "zhongguo")
	assert.Contains(t, got, "zg")
}

func TestDefaultReader(t *testing.T) {
	reader := DefaultReader()
	readings, err := reader.Readings('中')
	assert.Nil(t, err)
	assert.Contains(t, readings, "zhong")
	seen := make(map[string]bool)
	for _, reading := range readings {
		assert.False(t, seen[reading], "duplicated reading %s", reading)
		seen[reading] = true
	}

	readings, err = reader.Readings('a')
	assert.Nil(t, err)
	assert.Empty(t, readings)
}

func TestFilter_ChainedWithNGram(t *testing.T) {
	pinyinFilter := NewFilter(tokenize(t, "中国"), testReader, Option{
		Format:        Short,
		MinTermLength: 2,
	})
	ngramFilter, err := ngram.NewFilter(pinyinFilter, 1, 5, ngram.Front)
	require.Nil(t, err)
	tokens := nlp.Drain(ngramFilter)
	assert.Equal(t, []string{"z", "zg"}, texts(tokens))
	assert.Equal(t, 1, tokens[0].PositionIncrement)
	assert.Equal(t, 0, tokens[1].PositionIncrement)
}

func TestIsChinese(t *testing.T) {
	assert.True(t, IsChinese('一'))
	assert.True(t, IsChinese('龥'))
	assert.True(t, IsChinese(0x29FA5))
	assert.False(t, IsChinese(0x29FA6))
	assert.False(t, IsChinese('a'))
	assert.False(t, IsChinese('あ'))
	assert.Equal(t, 2, CountChinese("中国abc"))
}
