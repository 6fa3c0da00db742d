package pinyin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullForms(t *testing.T) {
	tests := []struct {
		name     string
		readings [][]string
		want     []string
	}{
		{
			name:     "empty",
			readings: nil,
			want:     []string{},
		},
		{
			name:     "single reading each",
			readings: [][]string{{"zhong"}, {"guo"}},
			want:     []string{"zhongguo"},
		},
		{
			name:     "heteronym",
			readings: [][]string{{"zhong", "zhong4"}, {"guo"}},
			want:     []string{"zhongguo", "zhong4guo"},
		},
		{
			name:     "cross product",
			readings: [][]string{{"a", "b"}, {"c", "d", "e"}, {"f"}},
			want:     []string{"acf", "adf", "aef", "bcf", "bdf", "bef"},
		},
		{
			name:     "collisions collapse",
			readings: [][]string{{"a", "ab"}, {"bc", "c"}},
			want:     []string{"abc", "abbc", "ac"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, FullForms(tt.readings).Sorted())
		})
	}
}

func TestFullForms_Cardinality(t *testing.T) {
	readings := [][]string{{"xing", "hang"}, {"le", "yue"}, {"zhong", "chong"}}
	assert.Len(t, FullForms(readings), 2*2*2)
}

func TestShortForms(t *testing.T) {
	tests := []struct {
		name     string
		readings [][]string
		want     []string
	}{
		{
			name:     "empty",
			readings: nil,
			want:     []string{},
		},
		{
			name:     "shared initial",
			readings: [][]string{{"zhong", "zhong4"}, {"guo"}},
			want:     []string{"zg"},
		},
		{
			name:     "single readings",
			readings: [][]string{{"zhong"}, {"guo"}},
			want:     []string{"zg"},
		},
		{
			name:     "different initials",
			readings: [][]string{{"zhong", "chong"}, {"guo"}, {"ren"}},
			want:     []string{"zgr", "cgr"},
		},
		{
			name:     "grapheme initial",
			readings: [][]string{{"ü"}, {"e"}},
			want:     []string{"üe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, ShortForms(tt.readings).Sorted())
		})
	}
}

func TestMixedForms(t *testing.T) {
	readings := [][]string{{"ke"}, {"hua"}, {"wan"}}
	tests := []struct {
		name  string
		depth int
		want  []string
	}{
		{name: "disabled", depth: 0, want: []string{}},
		{name: "negative", depth: -1, want: []string{}},
		{name: "first char only", depth: 1, want: []string{"khuawan"}},
		{name: "two chars", depth: 2, want: []string{"khuawan", "khwan"}},
		{name: "clamped to length minus one", depth: 100, want: []string{"khuawan", "khwan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, MixedForms(readings, tt.depth).Sorted())
		})
	}
}

func TestMixedForms_ClampEqualsLengthMinusOne(t *testing.T) {
	readings := [][]string{{"xing", "hang"}, {"le"}, {"zhong", "chong"}}
	assert.Equal(t, MixedForms(readings, 2), MixedForms(readings, 100))
}

func TestMixedForms_DepthCappedAtTen(t *testing.T) {
	readings := make([][]string, 15)
	for i := range readings {
		readings[i] = []string{"ab"}
	}
	forms := MixedForms(readings, 14)
	assert.Len(t, forms, 10)
	// eleven abbreviated characters would need depth 11
	assert.False(t, forms.Contains(strings.Repeat("a", 11)+strings.Repeat("ab", 4)))
	assert.True(t, forms.Contains(strings.Repeat("a", 10)+strings.Repeat("ab", 5)))
}

func TestMixedForms_Heteronym(t *testing.T) {
	readings := [][]string{{"xing", "hang"}, {"le", "yue"}, {"dong"}}
	assert.ElementsMatch(t, []string{
		"xledong", "xyuedong", "hledong", "hyuedong",
		"xldong", "xydong", "hldong", "hydong",
	}, MixedForms(readings, 2).Sorted())
}

func TestMixedForms_SingleCharacter(t *testing.T) {
	assert.Empty(t, MixedForms([][]string{{"zhong"}}, 3))
	assert.Empty(t, MixedForms(nil, 3))
}
