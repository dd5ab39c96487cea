package hashstr

import (
	"testing"

	"holohash.dev/holohash/holohash"
)

const agentText = "uhCAkzycGKqICX7BJ11aehXkQ0ebZd9A0m08f-p8c1Pyy4uMlNUQU"

func TestHoloHash_ResolvesConcreteType(t *testing.T) {
	h, err := String(agentText).HoloHash(true)
	if err != nil {
		t.Fatalf("HoloHash: %v", err)
	}
	if h.Type() != holohash.TypeAgentPubKey {
		t.Fatalf("type: got %s", h.Type())
	}
	if h.String() != agentText {
		t.Fatalf("String: got %s", h)
	}
}

func TestHoloHash_StrictFlag(t *testing.T) {
	legacy := String(agentText[1:])
	if _, err := legacy.HoloHash(true); !holohash.IsKind(err, holohash.KindNoLeadingPrefixCharacter) {
		t.Fatalf("strict: expected NoLeadingPrefixCharacter, got %v", err)
	}
	h, err := legacy.HoloHash(false)
	if err != nil {
		t.Fatalf("permissive: %v", err)
	}
	if h.String() != agentText {
		t.Fatalf("permissive: got %s", h)
	}
}

func TestAs(t *testing.T) {
	if _, err := String(agentText).As(holohash.TypeEntry, true); !holohash.IsKind(err, holohash.KindBadPrefix) {
		t.Fatalf("expected BadPrefix, got %v", err)
	}
	h, err := String(agentText).As(holohash.TypeAnyDht, true)
	if err != nil {
		t.Fatalf("As(AnyDht): %v", err)
	}
	if h.Type() != holohash.TypeAgentPubKey {
		t.Fatalf("As(AnyDht): got %s", h.Type())
	}
}

func TestParseAll(t *testing.T) {
	hs, err := ParseAll(holohash.TypeAgentPubKey, Strings([]string{agentText, agentText}), true)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("ParseAll: got %d", len(hs))
	}
	if _, err := ParseAll(holohash.TypeAgentPubKey, Strings([]string{agentText, "bad"}), true); err == nil {
		t.Fatalf("ParseAll: expected error")
	}
}
