package holohash

import (
	"errors"
	"testing"
)

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}

func TestPrefixTable(t *testing.T) {
	want := map[Type]string{
		TypeAgentPubKey: "hCAk",
		TypeEntry:       "hCEk",
		TypeNetID:       "hCIk",
		TypeDhtOp:       "hCQk",
		TypeAction:      "hCkk",
		TypeWasm:        "hCok",
		TypeDna:         "hC0k",
		TypeExternal:    "hC8k",
		TypeHoloHash:    "hC--",
		TypeAnyDht:      "hC__",
		TypeAnyLinkable: "hC__",
	}
	for typ, s := range want {
		if got := typ.Prefix().String(); got != s {
			t.Fatalf("%s prefix: got %s want %s", typ, got, s)
		}
	}
}

func TestTypes_ConcreteOnly(t *testing.T) {
	types := Types()
	if len(types) != 8 {
		t.Fatalf("Types: got %d", len(types))
	}
	seen := map[Prefix]bool{}
	for _, typ := range types {
		if !typ.Concrete() {
			t.Fatalf("%s is not concrete", typ)
		}
		if seen[typ.Prefix()] {
			t.Fatalf("duplicate prefix %s", typ.Prefix())
		}
		seen[typ.Prefix()] = true
	}
}

func TestTypeByName(t *testing.T) {
	for _, name := range []string{"HoloHash", "AnyLinkableHash", "AnyDhtHash", "AgentPubKey", "EntryHash", "NetIdHash", "DhtOpHash", "ActionHash", "WasmHash", "DnaHash", "ExternalHash"} {
		typ, ok := TypeByName(name)
		if !ok {
			t.Fatalf("TypeByName(%s): not found", name)
		}
		if typ.String() != name {
			t.Fatalf("TypeByName(%s): got %s", name, typ)
		}
	}
	if _, ok := TypeByName("Undefined"); ok {
		t.Fatalf("Undefined should not resolve")
	}
}

func TestTypeByPrefix(t *testing.T) {
	typ, ok := TypeByPrefix(DnaPrefix)
	if !ok || typ != TypeDna {
		t.Fatalf("TypeByPrefix(dna): got %s %v", typ, ok)
	}
	for _, p := range []Prefix{BlankPrefix, EnumPrefix, {0, 0, 0}} {
		if _, ok := TypeByPrefix(p); ok {
			t.Fatalf("TypeByPrefix(%v): should not resolve", p)
		}
	}
}

func TestHierarchy(t *testing.T) {
	cases := []struct {
		typ, super Type
		want       bool
	}{
		{TypeAgentPubKey, TypeAnyDht, true},
		{TypeAgentPubKey, TypeAnyLinkable, true},
		{TypeAgentPubKey, TypeHoloHash, true},
		{TypeExternal, TypeAnyLinkable, true},
		{TypeExternal, TypeAnyDht, false},
		{TypeDna, TypeAnyLinkable, false},
		{TypeDna, TypeHoloHash, true},
		{TypeAnyDht, TypeAnyLinkable, true},
		{TypeAnyLinkable, TypeAnyDht, false},
	}
	for _, c := range cases {
		if got := c.typ.Is(c.super); got != c.want {
			t.Fatalf("%s.Is(%s): got %v want %v", c.typ, c.super, got, c.want)
		}
	}
}

func TestMembers(t *testing.T) {
	dht := TypeAnyDht.Members()
	if len(dht) != 3 || dht[0] != TypeAgentPubKey || dht[1] != TypeEntry || dht[2] != TypeAction {
		t.Fatalf("AnyDht members: got %v", dht)
	}
	linkable := TypeAnyLinkable.Members()
	if len(linkable) != 4 || linkable[3] != TypeExternal {
		t.Fatalf("AnyLinkable members: got %v", linkable)
	}
	if got := TypeHoloHash.Members(); len(got) != 8 {
		t.Fatalf("HoloHash members: got %v", got)
	}
	if got := TypeWasm.Members(); len(got) != 1 || got[0] != TypeWasm {
		t.Fatalf("Wasm members: got %v", got)
	}
	if !TypeAnyDht.Supertype() || TypeHoloHash.Supertype() || TypeEntry.Supertype() {
		t.Fatalf("Supertype classification is wrong")
	}
}
