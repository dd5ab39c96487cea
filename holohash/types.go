package holohash

import (
	"holohash.dev/holohash/b64url"
	"holohash.dev/holohash/checksum"
)

// Layout of the canonical binary form.
const (
	PrefixSize   = 3
	PayloadSize  = checksum.PayloadSize
	ChecksumSize = checksum.Size

	// Size is the length of the canonical prefix || payload || checksum form.
	Size = PrefixSize + PayloadSize + ChecksumSize

	// CoreSize is the length of the prefix-less payload || checksum form.
	CoreSize = PayloadSize + ChecksumSize
)

// Prefix is the 3-byte type discriminator at the head of a hash.
type Prefix [PrefixSize]byte

// String returns the base64url rendering of the prefix ("hCAk" for agents).
func (p Prefix) String() string {
	return b64url.EncodeRaw(p[:])
}

var (
	// BlankPrefix marks an unspecified type; every type accepts it.
	BlankPrefix = Prefix{132, 47, 190} // hC--
	// EnumPrefix marks an "any-of" supertype.
	EnumPrefix = Prefix{132, 47, 255} // hC//

	AgentPrefix    = Prefix{132, 32, 36} // hCAk
	EntryPrefix    = Prefix{132, 33, 36} // hCEk
	NetIDPrefix    = Prefix{132, 34, 36} // hCIk
	DhtOpPrefix    = Prefix{132, 36, 36} // hCQk
	ActionPrefix   = Prefix{132, 41, 36} // hCkk
	WasmPrefix     = Prefix{132, 42, 36} // hCok
	DnaPrefix      = Prefix{132, 45, 36} // hC0k
	ExternalPrefix = Prefix{132, 47, 36} // hC8k
)

// Type identifies the concrete or abstract kind of a hash.
type Type uint8

const (
	typeUndefined Type = iota

	// TypeHoloHash is the generic base type. Constructing it from bytes with
	// a concrete prefix yields that concrete type instead.
	TypeHoloHash
	// TypeAnyLinkable resolves to AgentPubKey, EntryHash, ActionHash or ExternalHash.
	TypeAnyLinkable
	// TypeAnyDht resolves to AgentPubKey, EntryHash or ActionHash.
	TypeAnyDht

	TypeAgentPubKey
	TypeEntry
	TypeNetID
	TypeDhtOp
	TypeAction
	TypeWasm
	TypeDna
	TypeExternal
)

type typeInfo struct {
	name     string
	prefix   Prefix
	parent   Type
	concrete bool
}

var registry = [...]typeInfo{
	typeUndefined:   {name: "Undefined"},
	TypeHoloHash:    {name: "HoloHash", prefix: BlankPrefix},
	TypeAnyLinkable: {name: "AnyLinkableHash", prefix: EnumPrefix, parent: TypeHoloHash},
	TypeAnyDht:      {name: "AnyDhtHash", prefix: EnumPrefix, parent: TypeAnyLinkable},
	TypeAgentPubKey: {name: "AgentPubKey", prefix: AgentPrefix, parent: TypeAnyDht, concrete: true},
	TypeEntry:       {name: "EntryHash", prefix: EntryPrefix, parent: TypeAnyDht, concrete: true},
	TypeNetID:       {name: "NetIdHash", prefix: NetIDPrefix, parent: TypeHoloHash, concrete: true},
	TypeDhtOp:       {name: "DhtOpHash", prefix: DhtOpPrefix, parent: TypeHoloHash, concrete: true},
	TypeAction:      {name: "ActionHash", prefix: ActionPrefix, parent: TypeAnyDht, concrete: true},
	TypeWasm:        {name: "WasmHash", prefix: WasmPrefix, parent: TypeHoloHash, concrete: true},
	TypeDna:         {name: "DnaHash", prefix: DnaPrefix, parent: TypeHoloHash, concrete: true},
	TypeExternal:    {name: "ExternalHash", prefix: ExternalPrefix, parent: TypeAnyLinkable, concrete: true},
}

// Types returns every concrete type in registry order.
func Types() []Type {
	out := make([]Type, 0, len(registry))
	for i := range registry {
		if t := Type(i); t.Concrete() {
			out = append(out, t)
		}
	}
	return out
}

// TypeByName looks up a type by its name ("AgentPubKey", "AnyDhtHash", ...).
func TypeByName(name string) (Type, bool) {
	for i := range registry {
		t := Type(i)
		if t.valid() && registry[i].name == name {
			return t, true
		}
	}
	return typeUndefined, false
}

// TypeByPrefix returns the concrete type owning p.
func TypeByPrefix(p Prefix) (Type, bool) {
	for _, t := range Types() {
		if registry[t].prefix == p {
			return t, true
		}
	}
	return typeUndefined, false
}

func (t Type) valid() bool {
	return t > typeUndefined && int(t) < len(registry)
}

func (t Type) info() typeInfo {
	if !t.valid() {
		return registry[typeUndefined]
	}
	return registry[t]
}

func (t Type) String() string {
	return t.info().name
}

// Prefix returns the prefix stored for values of this type. Supertypes store
// EnumPrefix and the generic base type stores BlankPrefix.
func (t Type) Prefix() Prefix {
	return t.info().prefix
}

// Concrete reports whether t owns a unique prefix.
func (t Type) Concrete() bool {
	return t.info().concrete
}

// Supertype reports whether t is one of the "any-of" types.
func (t Type) Supertype() bool {
	return t.valid() && !t.Concrete() && t != TypeHoloHash
}

// Parent returns the direct supertype of t, or the zero Type for TypeHoloHash.
func (t Type) Parent() Type {
	return t.info().parent
}

// Is reports whether t is super or one of its descendants.
func (t Type) Is(super Type) bool {
	for c := t; c.valid(); c = registry[c].parent {
		if c == super {
			return true
		}
	}
	return false
}

// Members returns the concrete types t can resolve to. A concrete type is
// its only member.
func (t Type) Members() []Type {
	if !t.valid() {
		return nil
	}
	var out []Type
	for _, c := range Types() {
		if c.Is(t) {
			out = append(out, c)
		}
	}
	return out
}
