package news

import (
	"errors"
	"fmt"
)

// Page is one page of normalized articles plus the continuation cursor.
// An empty NextCursor means there are no further pages.
type Page struct {
	Articles   []Article
	NextCursor string
}

// NetworkError is a transport or API failure while fetching a page.
type NetworkError struct {
	Category Category
	Cursor   string
	Status   int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.Category, e.Status, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.Category, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Continuation reports whether the failed request was a load-more.
func (e *NetworkError) Continuation() bool {
	return e.Cursor != ""
}

// PersistenceReadError reports malformed local data. It is never returned to
// callers; stores log it and treat the data as empty.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is, or wraps, a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
