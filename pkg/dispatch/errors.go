package dispatch

import (
	"errors"
	"fmt"

	"github.com/catalogops/catalog-mcp/pkg/catalog"
	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// ErrorKind tags a dispatch failure so callers and tests can assert on the
// kind instead of the message text.
type ErrorKind string

// Dispatch failure kinds.
const (
	// KindValidation marks a bad or missing input field.
	KindValidation ErrorKind = "validation"

	// KindResolution marks an unknown operation name or unmatched URI.
	KindResolution ErrorKind = "resolution"

	// KindUpstream marks a product catalog API failure.
	KindUpstream ErrorKind = "upstream"

	// KindResourceRead marks an unreadable resource.
	KindResourceRead ErrorKind = "resource_read"

	// KindInternal marks an unexpected handler failure, including panics.
	KindInternal ErrorKind = "internal"
)

// Error is a tagged dispatch failure. It always reaches the caller inside a
// well-formed envelope, never as a raised error.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a tagged error from a format string.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// classify tags an error returned by a handler. Already-tagged errors keep
// their kind; known collaborator errors map to their taxonomy entry; anything
// else gets the fallback kind.
func classify(err error, fallback ErrorKind) *Error {
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return &Error{Kind: KindValidation, Err: err}
	}

	var cerr *catalog.Error
	if errors.As(err, &cerr) {
		return &Error{Kind: KindUpstream, Err: err}
	}

	return &Error{Kind: fallback, Err: err}
}
