package testing

import (
	"fmt"
	"strings"
)

// MultiError collects every failed check of a ZipChecker.
type MultiError []error

func (m MultiError) Error() string {
	msgs := make([]string, 0, len(m))
	for i, err := range m {
		msgs = append(msgs, fmt.Sprintf("check %d: %s", i+1, err))
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m MultiError) Unwrap() []error {
	return m
}

// AppendErr appends err to MultiError if err is not nil.
func AppendErr(m *MultiError, err error) {
	if err == nil {
		return
	}
	*m = append(*m, err)
}
