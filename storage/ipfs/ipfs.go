package ipfs

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"

	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
)

// CAS is a content-addressable store backed by the local Kubo "ipfs" CLI.
//
// Properties:
// - Offline: operates on the local IPFS repo; does not require an IPFS daemon.
// - Deterministic: no wall-clock usage; validates bytes against the requested hash.
// - Best-effort: relies on an external "ipfs" binary (configurable).
//
// Blocks are stored raw under CIDv1 + blake2b-256, so the CID multihash digest
// is exactly the hash payload (see cidutil.ContentCID).
//
// Note: This package name is "ipfs" for familiarity, but it does not embed a
// network client; it shells out to the local Kubo CLI.
type CAS struct {
	bin string
	env []string
	pin bool
}

type Options struct {
	// Bin is the path to the ipfs binary. If empty, "ipfs" is used.
	Bin string
	// Env optionally overrides the command environment (e.g. to set IPFS_PATH).
	// If nil, the process environment is used.
	Env []string
	// Pin pins blocks on Put.
	Pin bool
}

func New(opts Options) *CAS {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &CAS{bin: bin, env: opts.Env, pin: opts.Pin}
}

func (c *CAS) Put(data []byte) (holohash.Hash, error) {
	id := storage.ContentHash(data)
	want, err := cidutil.ContentCID(id)
	if err != nil {
		return holohash.Hash{}, err
	}

	out, err := c.run(data,
		"block", "put",
		"--quiet",
		"--format=raw",
		"--mhtype=blake2b-256",
		"--mhlen=32",
		"--cid-version=1",
		fmt.Sprintf("--pin=%t", c.pin),
		"/dev/stdin",
	)
	if err != nil {
		return holohash.Hash{}, err
	}

	got, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return holohash.Hash{}, fmt.Errorf("ipfs: unexpected block put output: %w", err)
	}
	if !got.Equals(want) {
		return holohash.Hash{}, storage.ErrHashMismatch
	}
	return id, nil
}

func (c *CAS) Get(id holohash.Hash) ([]byte, error) {
	key, err := cidutil.ContentCID(id)
	if err != nil {
		return nil, storage.ErrInvalidHash
	}

	out, err := c.run(nil, "block", "get", key.String())
	if err != nil {
		if isLikelyNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := storage.Verify(id, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CAS) Has(id holohash.Hash) bool {
	key, err := cidutil.ContentCID(id)
	if err != nil {
		return false
	}
	_, err = c.run(nil, "block", "stat", key.String())
	return err == nil
}

func (c *CAS) run(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command(c.bin, args...)
	if c.env != nil {
		cmd.Env = c.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		s := strings.TrimSpace(string(ee.Stderr))
		if s == "" {
			return nil, fmt.Errorf("ipfs: %v", err)
		}
		return nil, fmt.Errorf("ipfs: %s", s)
	}
	return nil, err
}

func isLikelyNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "block not found")
}
