// Package xerrors defines the typed error kinds of spec.md §7, each
// inspectable with errors.Is/errors.As so callers can decide whether a
// failure is fatal (ConfigError, and OBO ParseError) or isolable to a
// single taxon or term (everything else).
package xerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure per spec.md §7.
type Kind uint8

const (
	InputMissing Kind = iota
	ParseError
	InconsistentInput
	NumericFailure
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case InputMissing:
		return "InputMissing"
	case ParseError:
		return "ParseError"
	case InconsistentInput:
		return "InconsistentInput"
	case NumericFailure:
		return "NumericFailure"
	case ConfigError:
		return "ConfigError"
	default:
		return "UnknownKind"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// failure category with errors.As.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, context string, cause error) error {
	return &Error{Kind: kind, Context: context, Err: cause}
}

// Is reports whether err is (or wraps) an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
