package storage

import (
	"fmt"

	"holohash.dev/holohash/holohash"
)

// NamedCAS associates a CAS with a stable backend name.
//
// This is used for multi-backend orchestration where callers need to retain
// per-backend metadata (e.g., for reporting or auditing).
type NamedCAS struct {
	Name string
	CAS  CAS
}

// ReplicatingCAS writes to all configured backends.
//
// Reads fall back in order. Writes go to all backends and require every
// returned hash to carry the canonical payload (otherwise ErrHashMismatch is
// returned).
//
// Use PutAll when you need the per-backend mapping.
type ReplicatingCAS struct {
	Backends []NamedCAS
}

var _ CAS = (*ReplicatingCAS)(nil)

// PutAll writes the same bytes to all backends.
//
// It returns:
// - the canonical EntryHash (computed from bytes)
// - a map of backend name -> returned hash
//
// If any backend returns a different payload, ErrHashMismatch is returned.
func (r ReplicatingCAS) PutAll(bytes []byte) (holohash.Hash, map[string]holohash.Hash, error) {
	want := ContentHash(bytes)
	if len(r.Backends) == 0 {
		return holohash.Hash{}, nil, fmt.Errorf("storage: ReplicatingCAS has no backends")
	}

	out := make(map[string]holohash.Hash, len(r.Backends))
	for _, b := range r.Backends {
		if b.CAS == nil {
			return holohash.Hash{}, nil, fmt.Errorf("storage: nil CAS for backend %q", b.Name)
		}
		got, err := b.CAS.Put(bytes)
		if err != nil {
			return holohash.Hash{}, nil, fmt.Errorf("storage: backend %q: %w", b.Name, err)
		}
		out[b.Name] = got
		if !got.SamePayload(want) {
			return holohash.Hash{}, out, ErrHashMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingCAS) Put(bytes []byte) (holohash.Hash, error) {
	id, _, err := r.PutAll(bytes)
	return id, err
}

func (r ReplicatingCAS) Get(id holohash.Hash) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidHash
	}
	for _, b := range r.Backends {
		if b.CAS == nil {
			continue
		}
		out, err := b.CAS.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r ReplicatingCAS) Has(id holohash.Hash) bool {
	for _, b := range r.Backends {
		if b.CAS != nil && b.CAS.Has(id) {
			return true
		}
	}
	return false
}
