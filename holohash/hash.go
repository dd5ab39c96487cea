package holohash

import (
	"encoding/binary"
	"fmt"

	"holohash.dev/holohash/b64url"
)

// Hash is an immutable, typed 39-byte identifier.
//
// The zero Hash is undefined; every Hash returned without error by this
// package carries its type's prefix, the payload, and the checksum computed
// from that payload.
type Hash struct {
	typ Type
	raw [Size]byte
}

// Type returns the hash's type tag.
func (h Hash) Type() Type { return h.typ }

// Defined reports whether h was produced by a successful construction.
func (h Hash) Defined() bool { return h.typ != typeUndefined }

func (h Hash) Prefix() Prefix {
	return Prefix(h.raw[:PrefixSize])
}

func (h Hash) Payload() [PayloadSize]byte {
	return [PayloadSize]byte(h.raw[PrefixSize : PrefixSize+PayloadSize])
}

func (h Hash) Checksum() [ChecksumSize]byte {
	return [ChecksumSize]byte(h.raw[PrefixSize+PayloadSize:])
}

// Location is the checksum read as a big-endian uint32; it places the hash
// in the DHT address space.
func (h Hash) Location() uint32 {
	return binary.BigEndian.Uint32(h.raw[PrefixSize+PayloadSize:])
}

// Bytes returns a copy of the 39-byte binary form.
func (h Hash) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h.raw[:])
	return out
}

// Sub returns a copy of raw[start:end]. Negative offsets count from the end,
// so Sub(-4, Size) is the checksum.
func (h Hash) Sub(start, end int) ([]byte, error) {
	s, e := start, end
	if s < 0 {
		s += Size
	}
	if e < 0 {
		e += Size
	}
	if s < 0 || e > Size || s > e {
		return nil, fmt.Errorf("holohash: range [%d:%d] out of bounds for %d bytes", start, end, Size)
	}
	out := make([]byte, e-s)
	copy(out, h.raw[s:e])
	return out, nil
}

// String returns the canonical text form: "u" followed by the unpadded
// URL-safe base64 of the 39 bytes. An undefined Hash renders as "".
func (h Hash) String() string {
	if !h.Defined() {
		return ""
	}
	return b64url.Encode(h.raw[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	if !h.Defined() {
		return nil, fmt.Errorf("holohash: cannot marshal undefined hash")
	}
	return []byte(h.String()), nil
}

// UnmarshalText parses strictly into h's current type, or the generic base
// type when h is undefined.
func (h *Hash) UnmarshalText(text []byte) error {
	t := h.typ
	if !t.valid() {
		t = TypeHoloHash
	}
	parsed, err := Parse(t, string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// PrefixB64 returns the base64url rendering of the prefix, optionally with
// the leading "u".
func (h Hash) PrefixB64(withLeadingU bool) string {
	s := h.Prefix().String()
	if withLeadingU {
		return string(b64url.Prefix) + s
	}
	return s
}

// PayloadB64 returns the base64url rendering of the payload alone. The
// payload does not end on a base64 group boundary, so the last character
// may differ from the matching substring of String(); without force the
// call returns a KindWarning error.
func (h Hash) PayloadB64(force bool) (string, error) {
	if !force {
		return "", warning("base64 of the payload MIGHT not match the corresponding substring of the full hash text; pass force to proceed")
	}
	p := h.Payload()
	return b64url.EncodeRaw(p[:]), nil
}

// ChecksumB64 returns the base64url rendering of the checksum alone. It never
// matches the tail of String(); without force the call returns a KindWarning
// error.
func (h Hash) ChecksumB64(force bool) (string, error) {
	if !force {
		return "", warning("base64 of the checksum WILL NOT match the corresponding substring of the full hash text; pass force to proceed")
	}
	c := h.Checksum()
	return b64url.EncodeRaw(c[:]), nil
}

// Retype reinterprets the payload and checksum under a concrete type t.
func (h Hash) Retype(t Type) (Hash, error) {
	if !t.Concrete() {
		return Hash{}, errUnknownType(t.String())
	}
	if !h.Defined() {
		return Hash{}, errInvalidInput(h, "undefined hash")
	}
	return Decode(t, h.raw[PrefixSize:])
}

// RetypeName is Retype with the target given by name.
func (h Hash) RetypeName(name string) (Hash, error) {
	t, ok := TypeByName(name)
	if !ok || !t.Concrete() {
		return Hash{}, errUnknownType(name)
	}
	return h.Retype(t)
}

// Equal reports whether h and o have the same type and bytes.
func (h Hash) Equal(o Hash) bool {
	return h.typ == o.typ && h.raw == o.raw
}

// SamePayload reports whether h and o address the same content, ignoring type.
func (h Hash) SamePayload(o Hash) bool {
	return h.Defined() && o.Defined() && h.Payload() == o.Payload()
}
