package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks lookups for ids the catalog does not contain.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks requests rejected before any I/O.
	ErrValidation = errors.New("validation error")
	// ErrStoreIO marks lock, parse, and write failures. Never swallowed;
	// retried only through the lock's own bounded backoff.
	ErrStoreIO = errors.New("store I/O error")
)

// wrap tags an error chain with one of the sentinel errors above while
// keeping operation context in the message.
func wrap(marker error, operation string, err error) error {
	operation = strings.TrimSpace(operation)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, operation, err)
	}
	return fmt.Errorf("%w: %s", marker, operation)
}
