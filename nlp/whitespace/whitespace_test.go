package whitespace

import (
	"testing"

	"github.com/future-architect/pinyintower/nlp"
	"github.com/stretchr/testify/assert"
)

func Test_whitespaceSplitter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []nlp.Token
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "spaces only",
			content: "  \t\n",
			want:    nil,
		},
		{
			name:    "words",
			content: "zhongguoren shixi  xuexi",
			want: []nlp.Token{
				nlp.NewWordToken("zhongguoren", 0, 11),
				nlp.NewWordToken("shixi", 12, 17),
				nlp.NewWordToken("xuexi", 19, 24),
			},
		},
		{
			name:    "chinese",
			content: "科华万象 hello",
			want: []nlp.Token{
				nlp.NewWordToken("科华万象", 0, 4),
				nlp.NewWordToken("hello", 5, 10),
			},
		},
		{
			name:    "surrogate pair counts two chars",
			content: "🐸x y",
			want: []nlp.Token{
				nlp.NewWordToken("🐸x", 0, 3),
				nlp.NewWordToken("y", 4, 5),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, whitespaceSplitter(tt.content))
		})
	}
}

func TestRegistered(t *testing.T) {
	tokenizer, err := nlp.FindTokenizer(Language)
	assert.Nil(t, err)
	assert.Equal(t, Language, tokenizer.Name())
}
