// Package checksum derives the 4-byte address checksum embedded in every
// HoloHash.
//
// The checksum is a function of the 32-byte payload only: an unkeyed BLAKE2b
// digest truncated to 16 bytes, XOR-folded down to 4 bytes. Read as a
// big-endian uint32 the same bytes are the DHT location of the identifier.
package checksum

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

const (
	// Size is the length of a derived checksum.
	Size = 4

	// DigestSize is the BLAKE2b output length that gets folded.
	DigestSize = 16

	// PayloadSize is the length of the input every identifier carries.
	PayloadSize = 32
)

// Derive returns the checksum for payload.
func Derive(payload [PayloadSize]byte) [Size]byte {
	h, err := blake2b.New(DigestSize, nil)
	if err != nil {
		// blake2b.New only fails for sizes outside 1..64 or oversized keys.
		panic(err)
	}
	_, _ = h.Write(payload[:])

	var out [Size]byte
	copy(out[:], Fold(h.Sum(nil), Size))
	return out
}

// Fold XOR-reduces digest into n bytes: out[i] is the XOR of every
// digest[j] with j%n == i.
func Fold(digest []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	for i, b := range digest {
		out[i%n] ^= b
	}
	return out
}

// Location reinterprets a checksum as a big-endian uint32.
func Location(sum [Size]byte) uint32 {
	return binary.BigEndian.Uint32(sum[:])
}

// Of is shorthand for Location(Derive(payload)).
func Of(payload [PayloadSize]byte) uint32 {
	return Location(Derive(payload))
}
