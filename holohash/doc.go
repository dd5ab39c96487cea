// Package holohash implements typed 39-byte content identifiers.
//
// A Hash is laid out as:
//
//	prefix (3 bytes) || payload (32 bytes) || checksum (4 bytes)
//
// The prefix encodes the type (agent key, entry, action, ...). The checksum
// is a 16-byte blake2b digest of the payload folded to 4 bytes by XOR; read
// big-endian it is the hash's DHT location.
//
// The text form is "u" followed by the unpadded URL-safe base64 of the 39
// bytes, for example:
//
//	uhCAkzycGKqICX7BJ11aehXkQ0ebZd9A0m08f-p8c1Pyy4uMlNUQU
//
// Construction accepts the text form, the full 39 bytes, the 36-byte
// payload || checksum form, or a bare 32-byte payload. The checksum stored
// in a Hash is always recomputed from the payload; strict construction (the
// default) additionally rejects supplied checksums that disagree with it.
//
// The generic TypeHoloHash and the supertypes TypeAnyLinkable and TypeAnyDht
// resolve 39-byte input to the concrete type named by its prefix.
package holohash
