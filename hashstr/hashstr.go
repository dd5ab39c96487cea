// Package hashstr adapts plain strings into holohash values.
package hashstr

import (
	"holohash.dev/holohash/compliance"
	"holohash.dev/holohash/holohash"
)

// String is hash text as it appears in config files, flags, and wire fields.
type String string

// HoloHash parses s as the generic base type, resolving to the concrete type
// its prefix names.
func (s String) HoloHash(strict bool) (holohash.Hash, error) {
	return s.As(holohash.TypeHoloHash, strict)
}

// As parses s as type t.
func (s String) As(t holohash.Type, strict bool) (holohash.Hash, error) {
	return holohash.ParseWithOptions(t, string(s), holohash.Options{Mode: compliance.FromStrict(strict)})
}

// Strings converts raw text into a slice of String.
func Strings(in []string) []String {
	out := make([]String, len(in))
	for i, s := range in {
		out[i] = String(s)
	}
	return out
}

// ParseAll parses every entry as type t, stopping at the first error.
func ParseAll(t holohash.Type, in []String, strict bool) ([]holohash.Hash, error) {
	out := make([]holohash.Hash, 0, len(in))
	for _, s := range in {
		h, err := s.As(t, strict)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
