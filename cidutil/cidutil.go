package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"holohash.dev/holohash/holohash"
)

// Blake2b256 is the multihash code for a 32-byte blake2b digest.
const Blake2b256 = multihash.BLAKE2B_MIN + 31

// ContentHash returns a hash of type t whose payload is the blake2b-256
// digest of data.
func ContentHash(t holohash.Type, data []byte) (holohash.Hash, error) {
	sum, err := multihash.Sum(data, Blake2b256, -1)
	if err != nil {
		return holohash.Hash{}, err
	}
	dec, err := multihash.Decode(sum)
	if err != nil {
		return holohash.Hash{}, err
	}
	return holohash.Decode(t, dec.Digest)
}

// EntryHash is ContentHash for entries.
func EntryHash(data []byte) holohash.Hash {
	h, err := ContentHash(holohash.TypeEntry, data)
	if err != nil {
		// blake2b-256 always yields 32 bytes; this should be unreachable.
		panic(err)
	}
	return h
}

// ToCID returns a CIDv1 (raw) addressing the hash payload.
//
// Agent keys are public keys rather than digests, so they use an identity
// multihash; every other type wraps the payload as a blake2b-256 digest.
func ToCID(h holohash.Hash) (cid.Cid, error) {
	if !h.Defined() {
		return cid.Undef, fmt.Errorf("cidutil: undefined hash")
	}
	code := uint64(Blake2b256)
	if h.Type() == holohash.TypeAgentPubKey {
		code = multihash.IDENTITY
	}
	return payloadCID(h, code)
}

// ContentCID returns the CIDv1 (raw, blake2b-256) of the content h addresses,
// whatever its type. This is the key used by IPFS-backed storage.
func ContentCID(h holohash.Hash) (cid.Cid, error) {
	if !h.Defined() {
		return cid.Undef, fmt.Errorf("cidutil: undefined hash")
	}
	return payloadCID(h, Blake2b256)
}

func payloadCID(h holohash.Hash, code uint64) (cid.Cid, error) {
	payload := h.Payload()
	mh, err := multihash.Encode(payload[:], code)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// FromCID reverses ToCID, building a hash of type t from the CID's digest.
func FromCID(c cid.Cid, t holohash.Type) (holohash.Hash, error) {
	if !c.Defined() {
		return holohash.Hash{}, fmt.Errorf("cidutil: undefined cid")
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return holohash.Hash{}, fmt.Errorf("cidutil: %w", err)
	}
	switch dec.Code {
	case Blake2b256, multihash.IDENTITY:
	default:
		return holohash.Hash{}, fmt.Errorf("cidutil: unsupported multihash %s (0x%x)", dec.Name, dec.Code)
	}
	if len(dec.Digest) != holohash.PayloadSize {
		return holohash.Hash{}, fmt.Errorf("cidutil: digest length %d, want %d", len(dec.Digest), holohash.PayloadSize)
	}
	return holohash.Decode(t, dec.Digest)
}

// ParseCID decodes CID text and converts it with FromCID.
func ParseCID(s string, t holohash.Type) (holohash.Hash, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return holohash.Hash{}, fmt.Errorf("cidutil: %w", err)
	}
	return FromCID(c, t)
}
