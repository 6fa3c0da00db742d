package nlp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

const (
	TokenizerJapanese   = "ja"
	TokenizerEnglish    = "en"
	TokenizerWhitespace = "whitespace"
)

var (
	ErrUnknownTokenizer = errors.New("unknown tokenizer")
	ErrUnknownFilter    = errors.New("unknown filter")
)

var (
	registryLock sync.RWMutex
	tokenizers   = make(map[string]*Tokenizer)
	filters      = make(map[string]FilterFactory)
)

// Tokenizer splits raw text into word tokens. Packages under nlp register
// their tokenizers from init().
type Tokenizer struct {
	name     string
	splitter func(string) []Token
}

// FilterConstructor wraps an upstream stream with a configured filter.
type FilterConstructor func(input TokenStream) TokenStream

// FilterFactory validates filter parameters once and returns a constructor
// that can be applied to any number of streams.
type FilterFactory func(params Params) (FilterConstructor, error)

func RegisterTokenizer(name string, splitter func(string) []Token) {
	registryLock.Lock()
	defer registryLock.Unlock()
	tokenizers[name] = &Tokenizer{
		name:     name,
		splitter: splitter,
	}
}

func FindTokenizer(name string) (*Tokenizer, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	tokenizer, ok := tokenizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: can't find tokenizer for %s", ErrUnknownTokenizer, name)
	}
	return tokenizer, nil
}

func RegisterFilter(name string, factory FilterFactory) {
	registryLock.Lock()
	defer registryLock.Unlock()
	filters[name] = factory
}

// NewFilter looks up the factory registered as name and applies params to it.
func NewFilter(name string, params map[string]string) (FilterConstructor, error) {
	registryLock.RLock()
	factory, ok := filters[name]
	registryLock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	constructor, err := factory(NewParams(params))
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", name, err)
	}
	return constructor, nil
}

// TokenizerNames lists the registered tokenizers.
func TokenizerNames() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()
	names := make([]string, 0, len(tokenizers))
	for name := range tokenizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Tokenizer) Name() string {
	return t.name
}

func (t Tokenizer) Tokenize(content string) []Token {
	return t.splitter(content)
}

// TokenStream returns a replayable stream over the tokens of content.
func (t Tokenizer) TokenStream(content string) TokenStream {
	return NewSliceStream(t.splitter(content))
}
