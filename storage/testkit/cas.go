package testkit

import (
	"bytes"
	"testing"

	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("hello, holohash storage")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID := cidutil.EntryHash(want)
		if !id.Equal(wantID) {
			t.Fatalf("Put hash mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
		if !cidutil.EntryHash(got).Equal(id) {
			t.Fatalf("Get returned bytes not matching requested hash")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if !id1.Equal(id2) {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id := cidutil.EntryHash(b)

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing hash")
		}
		_, err := cas.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RetypedHashAddressesSameContent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("dna bytes")
		id, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		dna, err := id.Retype(holohash.TypeDna)
		if err != nil {
			t.Fatalf("Retype failed: %v", err)
		}
		if !cas.Has(dna) {
			t.Fatalf("Has(retyped) returned false")
		}
		got, err := cas.Get(dna)
		if err != nil {
			t.Fatalf("Get(retyped) failed: %v", err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("Get(retyped) bytes mismatch")
		}
	})

	t.Run("RejectUndefinedHash", func(t *testing.T) {
		cas := newCAS(t)
		var undef holohash.Hash
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined hash")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined hash")
		}
	})
}
