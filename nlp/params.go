package nlp

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownParameter = errors.New("unknown parameters")

// Params holds the string parameters of a tokenizer or filter definition.
// Getters consume the keys they read, so whatever is left after a factory
// has read its settings is unknown to it.
type Params map[string]string

// NewParams copies src so that consuming keys does not touch the caller's map.
func NewParams(src map[string]string) Params {
	result := make(Params, len(src))
	for key, value := range src {
		result[key] = value
	}
	return result
}

func (p Params) take(key string) (string, bool) {
	value, ok := p[key]
	if ok {
		delete(p, key)
	}
	return value, ok
}

func (p Params) String(key, defaultValue string) string {
	if value, ok := p.take(key); ok {
		return value
	}
	return defaultValue
}

// StringAlias is String with a fallback key kept for older configurations.
func (p Params) StringAlias(key, alias, defaultValue string) string {
	value, ok := p.take(key)
	aliasValue, aliasOK := p.take(alias)
	switch {
	case ok:
		return value
	case aliasOK:
		return aliasValue
	}
	return defaultValue
}

func (p Params) Int(key string, defaultValue int) (int, error) {
	value, ok := p.take(key)
	if !ok {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %w", key, err)
	}
	return result, nil
}

func (p Params) Bool(key string, defaultValue bool) (bool, error) {
	value, ok := p.take(key)
	if !ok {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("parameter %s: %w", key, err)
	}
	return result, nil
}

// CheckEmpty fails when any parameter was left unread.
func (p Params) CheckEmpty() error {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Errorf("%w: %s", ErrUnknownParameter, strings.Join(keys, ", "))
}
