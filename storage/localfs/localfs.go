package localfs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
)

// CAS is a local filesystem-backed content-addressable store.
//
// Objects are stored immutably and keyed by hash payload, sharded by the
// first byte of the hash location:
//
//	<root>/<location hex[0:2]>/<payload hex>
//
// This implementation is offline and deterministic: it never uses the network
// and never depends on wall-clock time.
type CAS struct {
	root string
}

// New constructs a filesystem CAS rooted at root. The directory will be created if needed.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root}, nil
}

// Root returns the directory the store writes into.
func (c *CAS) Root() string { return c.root }

func (c *CAS) Put(bytes []byte) (holohash.Hash, error) {
	id := storage.ContentHash(bytes)

	path := c.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return holohash.Hash{}, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := c.Get(id)
			if rerr != nil {
				// An unreadable or corrupted existing file is an immutability violation.
				return holohash.Hash{}, storage.ErrImmutable
			}
			if string(existing) != string(bytes) {
				return holohash.Hash{}, storage.ErrImmutable
			}
			return id, nil
		}
		return holohash.Hash{}, err
	}
	defer f.Close()

	if _, err := f.Write(bytes); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return holohash.Hash{}, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return holohash.Hash{}, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return holohash.Hash{}, err
	}

	return id, nil
}

func (c *CAS) Get(id holohash.Hash) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidHash
	}
	b, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := storage.Verify(id, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *CAS) Has(id holohash.Hash) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

func (c *CAS) pathFor(id holohash.Hash) string {
	payload := id.Payload()
	shard := fmt.Sprintf("%08x", id.Location())[:2]
	return filepath.Join(c.root, shard, hex.EncodeToString(payload[:]))
}
