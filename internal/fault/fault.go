// Package fault classifies errors into the kinds surfaced as exit codes.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

const (
	// KindSchema covers malformed JSON tables: wrong version, bad cell
	// types, illegal digit codes, illegal placeholder tags.
	KindSchema Kind = iota + 1
	// KindStructural covers layout/key presence mismatches and region
	// character set problems.
	KindStructural
	// KindTable covers n-gram TSV parse failures and count overflow.
	KindTable
	// KindArgument covers unknown metric names, out-of-range selections,
	// and invalid numeric options.
	KindArgument
	// KindFilter covers filter expression lex/parse failures and unknown
	// identifiers.
	KindFilter
	// KindCancelled marks a cooperative shutdown.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindStructural:
		return "structural"
	case KindTable:
		return "table"
	case KindArgument:
		return "argument"
	case KindFilter:
		return "filter"
	case KindCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Error pairs an underlying error with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a fault of the given kind from a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error. A nil error stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind from an error chain, or 0 if none is present.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// ExitCode maps an error to the process exit code for the CLI.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind := KindOf(err); kind != 0 {
		return int(kind) + 1
	}
	return 1
}
