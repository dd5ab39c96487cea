package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"

	"holohash.dev/holohash/holohash"
)

const kdfLabel = "holohash-agent-kdf-v1"

// AgentPubKey wraps an Ed25519 public key as an AgentPubKey hash.
func AgentPubKey(pub ed25519.PublicKey) (holohash.Hash, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return holohash.Hash{}, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return holohash.FromPayload(holohash.TypeAgentPubKey, [holohash.PayloadSize]byte(pub))
}

// AgentPubKeyFromSeed returns the AgentPubKey for an Ed25519 seed.
func AgentPubKeyFromSeed(seed []byte) (holohash.Hash, error) {
	if len(seed) != ed25519.SeedSize {
		return holohash.Hash{}, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return AgentPubKey(priv.Public().(ed25519.PublicKey))
}

// PublicKey extracts the Ed25519 public key carried by an AgentPubKey.
func PublicKey(agent holohash.Hash) (ed25519.PublicKey, error) {
	if agent.Type() != holohash.TypeAgentPubKey {
		return nil, fmt.Errorf("expected AgentPubKey, got %s", agent.Type())
	}
	p := agent.Payload()
	return ed25519.PublicKey(p[:]), nil
}

// DeriveRoleSeed deterministically derives a role-specific Ed25519 seed from a root seed.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(kdfLabel))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	sum := h.Sum(nil)
	if len(sum) < ed25519.SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, ed25519.SeedSize)
	copy(out, sum[:ed25519.SeedSize])
	return out, nil
}
