package storage

import (
	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/holohash"
)

// CAS is a minimal content-addressable storage interface keyed by hashes.
//
// Contract:
// - Put MUST be idempotent and return the EntryHash of the bytes written.
// - Stored objects MUST be immutable.
// - Get and Has address content by payload; the hash type is not significant,
//   so a retyped hash reaches the same bytes.
// - Get MUST return ErrNotFound when the content is absent.
type CAS interface {
	Put(bytes []byte) (holohash.Hash, error)
	Get(id holohash.Hash) ([]byte, error)
	Has(id holohash.Hash) bool
}

// ContentHash returns the identifier Put assigns to bytes.
func ContentHash(bytes []byte) holohash.Hash {
	return cidutil.EntryHash(bytes)
}

// Verify checks that bytes hash to the payload of id.
func Verify(id holohash.Hash, bytes []byte) error {
	if !id.Defined() {
		return ErrInvalidHash
	}
	if !ContentHash(bytes).SamePayload(id) {
		return ErrHashMismatch
	}
	return nil
}
