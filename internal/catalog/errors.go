package catalog

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// Error kinds. Match with errors.Is.
var (
	ErrNetwork   = errors.New("network error")
	ErrParse     = errors.New("unexpected response")
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid product id")
)

// Error describes a failed API call.
type Error struct {
	Kind error
	Op   string
	URL  string
	Err  error
}

func newError(kind error, op string, target *url.URL, err error) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}
	if target != nil {
		e.URL = target.String()
	}
	return e
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.URL, e.Kind, e.Err)
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}
