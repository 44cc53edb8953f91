// Package errutil defines the error-kind taxonomy shared by every package in
// the audit/Safrole core. Every fallible operation in this module returns a
// plain Go error; callers that need to branch on failure mode type-assert
// with errors.As and inspect Kind.
package errutil

import "fmt"

// Kind classifies why an operation failed. Kinds are mutually exclusive:
// every *Error carries exactly one.
type Kind int

const (
	// InvalidLength means a key, proof, hash, or entropy value had the wrong
	// byte length.
	InvalidLength Kind = iota + 1
	// EmptyInput means a required non-empty collection (e.g. the work-report
	// set for announcement signing) was empty.
	EmptyInput
	// InvalidEntryIndex means a ticket entryIndex was >= MAX_TICKET_ENTRIES.
	InvalidEntryIndex
	// InvalidSlot means input.slot <= currentSlot.
	InvalidSlot
	// TooManyExtrinsics means more than MAX_EXTRINSICS_PER_SLOT tickets were
	// submitted in one slot.
	TooManyExtrinsics
	// EncodingFailure means a codec encode/decode under- or over-flowed.
	EncodingFailure
	// CryptoFailure means a VRF or Ed25519 library call itself errored,
	// distinct from a legitimate "signature does not verify" result.
	CryptoFailure
	// BadSignatureBatch means a Ring-VRF verification returned false.
	BadSignatureBatch
	// SelectionMismatch means a claimed audit tranche selection did not
	// equal the recomputed selection.
	SelectionMismatch
	// DuplicateTicket means two tickets shared the same id after an
	// accumulator merge.
	DuplicateTicket
)

func (k Kind) String() string {
	switch k {
	case InvalidLength:
		return "InvalidLength"
	case EmptyInput:
		return "EmptyInput"
	case InvalidEntryIndex:
		return "InvalidEntryIndex"
	case InvalidSlot:
		return "InvalidSlot"
	case TooManyExtrinsics:
		return "TooManyExtrinsics"
	case EncodingFailure:
		return "EncodingFailure"
	case CryptoFailure:
		return "CryptoFailure"
	case BadSignatureBatch:
		return "BadSignatureBatch"
	case SelectionMismatch:
		return "SelectionMismatch"
	case DuplicateTicket:
		return "DuplicateTicket"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by this module. It wraps an
// optional underlying cause (a crypto-library error, a decode error, ...).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers can
// do errors.Is(err, errutil.New(errutil.InvalidSlot, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
