// Package errs defines the failure taxonomy shared by the ingestion and
// persistence boundaries.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a boundary failure.
type Kind string

const (
	// KindNetwork means the data source could not be reached or answered
	// with a non-2xx status.
	KindNetwork Kind = "network"
	// KindParse means the tabular payload was malformed.
	KindParse Kind = "parse"
	// KindStorage means a key-value store read or write failed.
	KindStorage Kind = "storage"
)

// Error wraps an underlying failure with its kind and the operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Network returns a KindNetwork error.
func Network(op string, err error) error { return &Error{Kind: KindNetwork, Op: op, Err: err} }

// Parse returns a KindParse error.
func Parse(op string, err error) error { return &Error{Kind: KindParse, Op: op, Err: err} }

// Storage returns a KindStorage error.
func Storage(op string, err error) error { return &Error{Kind: KindStorage, Op: op, Err: err} }

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// Retryable reports whether a failed operation is worth another attempt.
// Only network failures are; parse and storage failures never are.
func Retryable(err error) bool {
	return IsKind(err, KindNetwork)
}
