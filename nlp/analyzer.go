package nlp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownAnalyzer = errors.New("unknown analyzer")

var (
	analyzerLock sync.RWMutex
	analyzers    = make(map[string]*Analyzer)
)

// Analyzer is a tokenizer followed by a chain of filters. An Analyzer is
// immutable and can be shared; every call builds a fresh filter chain.
type Analyzer struct {
	name      string
	tokenizer *Tokenizer
	filters   []FilterConstructor
}

// FilterSpec names a registered filter and its parameters.
type FilterSpec struct {
	Type   string            `yaml:"type"`
	Params map[string]string `yaml:"params,omitempty"`
}

// NewAnalyzer resolves the tokenizer and filters and validates every filter's
// parameters up front.
func NewAnalyzer(name, tokenizerName string, filterSpecs ...FilterSpec) (*Analyzer, error) {
	tokenizer, err := FindTokenizer(tokenizerName)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", name, err)
	}
	result := &Analyzer{
		name:      name,
		tokenizer: tokenizer,
	}
	for _, spec := range filterSpecs {
		constructor, err := NewFilter(spec.Type, spec.Params)
		if err != nil {
			return nil, fmt.Errorf("analyzer %s: %w", name, err)
		}
		result.filters = append(result.filters, constructor)
	}
	return result, nil
}

func (a *Analyzer) Name() string {
	return a.name
}

func (a *Analyzer) TokenStream(content string) TokenStream {
	var stream TokenStream = a.tokenizer.TokenStream(content)
	for _, filter := range a.filters {
		stream = filter(stream)
	}
	return stream
}

func (a *Analyzer) Analyze(content string) []Token {
	return Drain(a.TokenStream(content))
}

// Term is a distinct token text with every position it occurs at.
type Term struct {
	Word      string
	Positions []uint32
}

// TokenizeToMap runs the analyzer and groups tokens by text. Positions follow
// the position increments, so tokens emitted at increment 0 share the
// position of the previous token. The second result is the number of
// positions in content.
func (a *Analyzer) TokenizeToMap(content string) (map[string]*Term, int) {
	terms := make(map[string]*Term)
	position := -1
	stream := a.TokenStream(content)
	for {
		token, ok := stream.Next()
		if !ok {
			break
		}
		position += token.PositionIncrement
		if position < 0 {
			position = 0
		}
		if term, ok := terms[token.Text]; ok {
			if term.Positions[len(term.Positions)-1] != uint32(position) {
				term.Positions = append(term.Positions, uint32(position))
			}
		} else {
			terms[token.Text] = &Term{
				Word:      token.Text,
				Positions: []uint32{uint32(position)},
			}
		}
	}
	return terms, position + 1
}

// Positions groups token texts by position, in position order.
func (a *Analyzer) Positions(content string) [][]string {
	var result [][]string
	stream := a.TokenStream(content)
	for {
		token, ok := stream.Next()
		if !ok {
			return result
		}
		if token.PositionIncrement > 0 || len(result) == 0 {
			result = append(result, nil)
		}
		last := len(result) - 1
		result[last] = append(result[last], token.Text)
	}
}

func RegisterAnalyzer(analyzer *Analyzer) {
	analyzerLock.Lock()
	defer analyzerLock.Unlock()
	analyzers[analyzer.name] = analyzer
}

func FindAnalyzer(name string) (*Analyzer, error) {
	analyzerLock.RLock()
	defer analyzerLock.RUnlock()
	analyzer, ok := analyzers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnalyzer, name)
	}
	return analyzer, nil
}

func AnalyzerNames() []string {
	analyzerLock.RLock()
	defer analyzerLock.RUnlock()
	names := make([]string, 0, len(analyzers))
	for name := range analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterFilter("lowercase", func(params Params) (FilterConstructor, error) {
		if err := params.CheckEmpty(); err != nil {
			return nil, err
		}
		return func(input TokenStream) TokenStream {
			return &lowerCaseFilter{input: input}
		}, nil
	})
}

type lowerCaseFilter struct {
	input TokenStream
}

func (f *lowerCaseFilter) Next() (Token, bool) {
	token, ok := f.input.Next()
	if ok {
		token.Text = strings.ToLower(token.Text)
	}
	return token, ok
}

func (f *lowerCaseFilter) Reset() {
	f.input.Reset()
}
