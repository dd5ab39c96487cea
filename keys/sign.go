package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"holohash.dev/holohash/holohash"
)

// ErrBadSignature is returned when a signature does not verify.
var ErrBadSignature = errors.New("signature does not verify")

// Digest hashes message with a named algorithm: blake2b-256, sha256, sha512
// or sha3-256.
func Digest(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "blake2b-256":
		s := blake2b.Sum256(message)
		return s[:], nil
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// Sign returns an Ed25519 signature over message.
func Sign(message []byte, privateKey ed25519.PrivateKey) []byte {
	return ed25519.Sign(privateKey, message)
}

// Verify checks sig against the public key carried by agent.
func Verify(agent holohash.Hash, message, sig []byte) error {
	pub, err := PublicKey(agent)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pub, message, sig) {
		return ErrBadSignature
	}
	return nil
}

// SignDigest signs hashAlg(message) instead of the message itself.
func SignDigest(message []byte, hashAlg string, privateKey ed25519.PrivateKey) ([]byte, error) {
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return nil, err
	}
	return Sign(digest, privateKey), nil
}

// VerifyDigest is the counterpart of SignDigest.
func VerifyDigest(agent holohash.Hash, message []byte, hashAlg string, sig []byte) error {
	digest, err := Digest(hashAlg, message)
	if err != nil {
		return err
	}
	return Verify(agent, digest, sig)
}
