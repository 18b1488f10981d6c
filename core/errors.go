package core

import (
	"errors"
	"fmt"
)

// Kind is the small closed set of error categories the trailer engine can
// report. See spec §7 for the taxonomy this mirrors.
type Kind int

const (
	// Ok indicates success. KindOf returns Ok for a nil error.
	Ok Kind = iota

	// Flash indicates an underlying flash operation failed, or that a
	// slot reported a zero write alignment.
	Flash

	// BadImage indicates a trailer was observed in a Bad state when the
	// operation expected coherence.
	BadImage

	// BadVector indicates SetConfirmed found magic == Bad on the primary.
	BadVector

	// Invalid indicates the caller asked to write more bytes than the
	// trailer's field block can hold.
	Invalid

	// Panic indicates the decision engine could not obtain a coherent
	// reading of either slot in a pair.
	Panic
)

// String returns a lower_snake diagnostic name for the kind.
func (k Kind) String() string {
	switch k {
	case Ok:
		return "ok"
	case Flash:
		return "flash"
	case BadImage:
		return "bad_image"
	case BadVector:
		return "bad_vector"
	case Invalid:
		return "invalid"
	case Panic:
		return "panic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the error type every core operation returns. It always carries
// a Kind; Err is the underlying cause when one exists (e.g. a flash I/O
// failure) and may be nil for kinds that are self-explanatory (BadVector,
// Invalid).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError constructs an *Error for the given op/kind, wrapping cause.
func newError(op string, kind Kind, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf extracts the Kind from err. A nil error yields Ok; an error that
// is not a *Error yields Flash, since every core-internal failure path
// produces a *Error and any other error type reaching a caller can only
// have come from a misused external collaborator.
func KindOf(err error) Kind {
	if err == nil {
		return Ok
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Flash
}
