package nlp

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v2"
)

// AnalyzerConfig is one entry of an analyzer definition file.
type AnalyzerConfig struct {
	Tokenizer string       `yaml:"tokenizer"`
	Filters   []FilterSpec `yaml:"filters,omitempty"`
}

// Config is the top level of an analyzer definition file:
//
//	analyzers:
//	  pinyin:
//	    tokenizer: whitespace
//	    filters:
//	      - type: pinyin_transform
//	        params:
//	          outputFormat: both
type Config struct {
	Analyzers map[string]AnalyzerConfig `yaml:"analyzers"`
}

// ParseConfig decodes an analyzer definition file. Unknown fields are rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.UnmarshalStrict(src, &config); err != nil {
		return nil, fmt.Errorf("can't parse analyzer config: %w", err)
	}
	return &config, nil
}

// Build creates every analyzer in the config. Analyzers are returned in name order.
func (c Config) Build() ([]*Analyzer, error) {
	names := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Analyzer, 0, len(names))
	for _, name := range names {
		ac := c.Analyzers[name]
		if ac.Tokenizer == "" {
			return nil, fmt.Errorf("analyzer %s: tokenizer is missing", name)
		}
		analyzer, err := NewAnalyzer(name, ac.Tokenizer, ac.Filters...)
		if err != nil {
			return nil, err
		}
		result = append(result, analyzer)
	}
	return result, nil
}

// LoadAnalyzers parses r, builds its analyzers and registers them. Nothing is
// registered when any definition is invalid.
func LoadAnalyzers(r io.Reader) ([]*Analyzer, error) {
	config, err := ParseConfig(r)
	if err != nil {
		return nil, err
	}
	built, err := config.Build()
	if err != nil {
		return nil, err
	}
	for _, analyzer := range built {
		RegisterAnalyzer(analyzer)
	}
	return built, nil
}
