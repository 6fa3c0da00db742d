package pinyintower

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotSupported  = errors.New("not supported")
)

type CombinedError struct {
	Message string
	Errors  []error
}

func (c *CombinedError) appendIfError(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// ErrorOrNil returns nil when nothing was collected.
func (c *CombinedError) ErrorOrNil() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c
}

func (c CombinedError) Error() string {
	var result []string
	for _, err := range c.Errors {
		result = append(result, err.Error())
	}
	return fmt.Sprintf("%s: %s", c.Message, strings.Join(result, ", "))
}

// Unwrap lets errors.Is see the collected errors.
func (c CombinedError) Unwrap() []error {
	return c.Errors
}
