package holohash

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind rather than matching error strings.
type Kind string

const (
	KindNoLeadingPrefixCharacter Kind = "NoLeadingPrefixCharacter"
	KindBadTextEncoding          Kind = "BadTextEncoding"
	KindBadSize                  Kind = "BadSize"
	KindBadPrefix                Kind = "BadPrefix"
	KindBadChecksum              Kind = "BadChecksum"
	KindUnknownType              Kind = "UnknownType"
	KindInvalidInputKind         Kind = "InvalidInputKind"

	// KindWarning is advisory: the call was refused until the caller opts in.
	KindWarning Kind = "Warning"
)

// Error is the package's structured error type.
//
// Value holds the offending input: the text for NoLeadingPrefixCharacter and
// BadTextEncoding, the byte length for BadSize, the Prefix for BadPrefix, the
// supplied checksum for BadChecksum, the name for UnknownType, and the input
// itself for InvalidInputKind. Expected holds the accepted alternative where
// one exists: []PrefixChoice for BadPrefix, the computed checksum for
// BadChecksum.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind     Kind
	Message  string
	Value    any
	Expected any
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// PrefixChoice names one prefix accepted in a given scope.
type PrefixChoice struct {
	Name   string
	Prefix Prefix
}

func (c PrefixChoice) String() string {
	return fmt.Sprintf("%s=%s%v", c.Name, c.Prefix, [PrefixSize]byte(c.Prefix))
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsWarning reports whether err is an advisory warning.
func IsWarning(err error) bool {
	return IsKind(err, KindWarning)
}

// KindOf returns the Kind of a structured error, or "" if unknown.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

func errNoLeadingPrefix(text string) error {
	return &Error{
		Kind:    KindNoLeadingPrefixCharacter,
		Message: fmt.Sprintf("holohash: text is missing the leading 'u': %s", text),
		Value:   text,
	}
}

func errBadTextEncoding(text string, cause error) error {
	return &Error{
		Kind:    KindBadTextEncoding,
		Message: fmt.Sprintf("holohash: failed to decode base64 input (%s)", text),
		Value:   text,
		Cause:   cause,
	}
}

func errBadSize(n int) error {
	return &Error{
		Kind:    KindBadSize,
		Message: fmt.Sprintf("holohash: invalid input byte length (%d); expected length %d, %d, or %d", n, Size, CoreSize, PayloadSize),
		Value:   n,
	}
}

func errBadPrefix(target Type, given Prefix, valid []PrefixChoice) error {
	names := make([]string, 0, len(valid))
	for _, c := range valid {
		names = append(names, c.String())
	}
	return &Error{
		Kind: KindBadPrefix,
		Message: fmt.Sprintf("holohash: prefix %s%v is not valid for %s; expected one of: %s",
			given, [PrefixSize]byte(given), target, strings.Join(names, ", ")),
		Value:    given,
		Expected: valid,
	}
}

func errBadChecksum(given, expected [ChecksumSize]byte) error {
	return &Error{
		Kind:     KindBadChecksum,
		Message:  fmt.Sprintf("holohash: given checksum (%v) does not match calculated checksum: %v", given, expected),
		Value:    given,
		Expected: expected,
	}
}

func errUnknownType(name string) error {
	names := make([]string, 0, len(registry))
	for _, t := range Types() {
		names = append(names, t.String())
	}
	return &Error{
		Kind:    KindUnknownType,
		Message: fmt.Sprintf("holohash: invalid type (%s); must be one of: %s", name, strings.Join(names, ", ")),
		Value:   name,
	}
}

func errInvalidInput(input any, detail string) error {
	msg := fmt.Sprintf("holohash: invalid input: type %T; expected string or byte sequence", input)
	if detail != "" {
		msg += " (" + detail + ")"
	}
	return &Error{
		Kind:    KindInvalidInputKind,
		Message: msg,
		Value:   input,
	}
}

func warning(msg string) error {
	return &Error{Kind: KindWarning, Message: "holohash: " + msg}
}
