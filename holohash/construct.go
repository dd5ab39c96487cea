package holohash

import (
	"strings"

	"holohash.dev/holohash/b64url"
	"holohash.dev/holohash/checksum"
)

// legacyMarker starts every 39-byte text form once the "u" is dropped.
const legacyMarker = "hC"

var validTextLens = [...]int{
	b64url.EncodedLen(Size),
	b64url.EncodedLen(CoreSize),
	b64url.EncodedLen(PayloadSize),
}

func bareTextLen(n int) bool {
	for _, l := range validTextLens {
		if n == l {
			return true
		}
	}
	return false
}

// Parse builds a Hash of type t from its text form using strict rules.
func Parse(t Type, s string) (Hash, error) {
	return ParseWithOptions(t, s, Options{})
}

// MustParse is Parse that panics on error. Intended for constants and tests.
func MustParse(t Type, s string) Hash {
	h, err := Parse(t, s)
	if err != nil {
		panic(err)
	}
	return h
}

func ParseWithOptions(t Type, s string, opts Options) (Hash, error) {
	opts = opts.withDefaults()
	b, err := decodeText(s, opts)
	if err != nil {
		return Hash{}, err
	}
	return construct(t, b, opts)
}

// Decode builds a Hash of type t from 39, 36 or 32 bytes using strict rules.
func Decode(t Type, b []byte) (Hash, error) {
	return DecodeWithOptions(t, b, Options{})
}

func DecodeWithOptions(t Type, b []byte, opts Options) (Hash, error) {
	return construct(t, b, opts.withDefaults())
}

// FromPayload builds a Hash of type t around a bare payload.
func FromPayload(t Type, payload [PayloadSize]byte) (Hash, error) {
	return construct(t, payload[:], Options{}.withDefaults())
}

// From builds a Hash of type t from a dynamically typed input using strict
// rules. See FromWithOptions for the accepted inputs.
func From(t Type, input any) (Hash, error) {
	return FromWithOptions(t, input, Options{})
}

// FromWithOptions accepts text (string), byte sequences ([]byte, [39]byte,
// [36]byte, [32]byte, or []int with every element in 0..255) and existing
// hashes (Hash, *Hash), whose 39-byte form is reused.
func FromWithOptions(t Type, input any, opts Options) (Hash, error) {
	switch v := input.(type) {
	case string:
		return ParseWithOptions(t, v, opts)
	case []byte:
		return DecodeWithOptions(t, v, opts)
	case [Size]byte:
		return DecodeWithOptions(t, v[:], opts)
	case [CoreSize]byte:
		return DecodeWithOptions(t, v[:], opts)
	case [PayloadSize]byte:
		return DecodeWithOptions(t, v[:], opts)
	case Hash:
		if !v.Defined() {
			return Hash{}, errInvalidInput(input, "undefined hash")
		}
		return DecodeWithOptions(t, v.raw[:], opts)
	case *Hash:
		if v == nil || !v.Defined() {
			return Hash{}, errInvalidInput(input, "undefined hash")
		}
		return DecodeWithOptions(t, v.raw[:], opts)
	case []int:
		b := make([]byte, len(v))
		for i, n := range v {
			if n < 0 || n > 255 {
				return Hash{}, errInvalidInput(input, "element out of byte range")
			}
			b[i] = byte(n)
		}
		return DecodeWithOptions(t, b, opts)
	default:
		return Hash{}, errInvalidInput(input, "")
	}
}

func decodeText(s string, opts Options) ([]byte, error) {
	log := opts.Logger
	s = strings.TrimSpace(s)
	core := strings.TrimRight(s, "=")
	log.Debug().Str("text", s).Str("mode", opts.Mode.String()).Msg("decode text")

	if opts.strict() && len(core) == b64url.EncodedLen(Size) && strings.HasPrefix(core, legacyMarker) {
		return nil, errNoLeadingPrefix(s)
	}
	if core != "" && core[0] == b64url.Prefix && !bareTextLen(len(core)) {
		s = s[1:]
	}
	b, err := b64url.DecodeRaw(s)
	if err != nil {
		return nil, errBadTextEncoding(s, err)
	}
	return b, nil
}

func construct(t Type, b []byte, opts Options) (Hash, error) {
	log := opts.Logger
	if !t.valid() {
		return Hash{}, errUnknownType(t.String())
	}
	log.Debug().Stringer("type", t).Int("len", len(b)).Msg("classify input")

	var payload [PayloadSize]byte
	var given []byte
	switch len(b) {
	case Size:
		p := Prefix(b[:PrefixSize])
		if !accepts(t, p) {
			next, ok := redirect(t, p)
			if !ok {
				return Hash{}, errBadPrefix(t, p, prefixChoices(t))
			}
			log.Debug().Stringer("from", t).Stringer("to", next).Msg("redirect by prefix")
			return construct(next, b[PrefixSize:], opts)
		}
		copy(payload[:], b[PrefixSize:PrefixSize+PayloadSize])
		given = b[PrefixSize+PayloadSize:]
	case CoreSize:
		copy(payload[:], b[:PayloadSize])
		given = b[PayloadSize:]
	case PayloadSize:
		copy(payload[:], b)
	default:
		return Hash{}, errBadSize(len(b))
	}

	expected := checksum.Derive(payload)
	if given != nil {
		if sum := [ChecksumSize]byte(given); sum != expected {
			log.Debug().
				Bool("strict", opts.strict()).
				Bytes("given", sum[:]).
				Bytes("expected", expected[:]).
				Msg("checksum mismatch")
			if opts.strict() {
				return Hash{}, errBadChecksum(sum, expected)
			}
		}
	}

	h := Hash{typ: t}
	prefix := t.Prefix()
	copy(h.raw[:PrefixSize], prefix[:])
	copy(h.raw[PrefixSize:], payload[:])
	copy(h.raw[PrefixSize+PayloadSize:], expected[:])
	log.Debug().Stringer("type", t).Stringer("hash", h).Msg("built")
	return h, nil
}

// accepts reports whether a 39-byte input with prefix p can be stored as t
// without redirection.
func accepts(t Type, p Prefix) bool {
	return p == t.Prefix() || p == BlankPrefix
}

// redirect finds the concrete member of t that owns p. Concrete targets are
// never redirected.
func redirect(t Type, p Prefix) (Type, bool) {
	if t.Concrete() {
		return typeUndefined, false
	}
	for _, m := range t.Members() {
		if m.Prefix() == p {
			return m, true
		}
	}
	return typeUndefined, false
}

func prefixChoices(t Type) []PrefixChoice {
	out := []PrefixChoice{{Name: t.String(), Prefix: t.Prefix()}}
	if t.Prefix() != BlankPrefix {
		out = append(out, PrefixChoice{Name: TypeHoloHash.String(), Prefix: BlankPrefix})
	}
	if !t.Concrete() {
		for _, m := range t.Members() {
			out = append(out, PrefixChoice{Name: m.String(), Prefix: m.Prefix()})
		}
	}
	return out
}
