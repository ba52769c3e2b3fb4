package catalog

import "fmt"

// ErrorKind classifies an upstream failure.
type ErrorKind string

// Upstream failure kinds.
const (
	// ErrNetwork covers connection, DNS, and transport failures.
	ErrNetwork ErrorKind = "network"

	// ErrStatus covers non-2xx responses from the catalog API.
	ErrStatus ErrorKind = "status"

	// ErrDecode covers responses whose body is not valid JSON.
	ErrDecode ErrorKind = "decode"
)

// Error is a typed upstream failure. Op names the catalog operation that
// failed; Status is set only for ErrStatus.
type Error struct {
	Kind   ErrorKind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrStatus:
		return fmt.Sprintf("catalog %s: upstream returned status %d", e.Op, e.Status)
	case ErrDecode:
		return fmt.Sprintf("catalog %s: malformed response body: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
