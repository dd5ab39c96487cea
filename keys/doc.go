// Package keys manages Ed25519 agent keys and renders their public halves as
// AgentPubKey hashes.
//
// An agent's public key is the 32-byte payload of its AgentPubKey, so the
// hash text doubles as the verification key for Verify.
//
// KeyStore is a local-first convenience: root seeds and role-derived seeds
// live as hex files under a directory with 0600 permissions.
package keys
