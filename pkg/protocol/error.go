package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrResource indicates that a channel or file backing a protocol step could not be opened.
	ErrResource = errors.New("resource error")
	// ErrProtocolViolation indicates that a participant, or the contents of a channel,
	// did not follow the protocol.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrKeyGenerationExhausted indicates that a rejection sampling loop gave up
	// before finding a suitable value.
	ErrKeyGenerationExhausted = errors.New("key generation exhausted")
)

// Error is a custom error for protocols which contains information about the phase in which it occurred,
// the party responsible, and the kind of failure.
type Error struct {
	// Phase where the error occurred
	Phase string
	// Party is empty if the identity of the misbehaving party cannot be known
	Party string
	// Kind is one of ErrResource, ErrProtocolViolation or ErrKeyGenerationExhausted.
	Kind error
	// Err is the underlying error
	Err error
}

func (e Error) Error() string {
	if e.Party == "" {
		return fmt.Sprintf("%s: %s: %s", e.Phase, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: party %s: %s: %s", e.Phase, e.Party, e.Kind, e.Err)
}

// Unwrap makes both the kind and the underlying error reachable through errors.Is and errors.As.
func (e Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Violation returns an Error of kind ErrProtocolViolation.
func Violation(phase, party, format string, args ...interface{}) error {
	return Error{
		Phase: phase,
		Party: party,
		Kind:  ErrProtocolViolation,
		Err:   fmt.Errorf(format, args...),
	}
}

// Resource returns an Error of kind ErrResource wrapping err.
func Resource(phase string, err error) error {
	return Error{
		Phase: phase,
		Kind:  ErrResource,
		Err:   err,
	}
}
