package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the request boundary can pick a status code
// and decide what to log.
type Kind int

const (
	Validation Kind = iota + 1
	Auth
	NotFound
	Adapter
	// Consistency marks a broken invariant between parcel and payment
	// records. These need operator attention, never silent handling.
	Consistency
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf walks the chain and returns the first Kind found, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
