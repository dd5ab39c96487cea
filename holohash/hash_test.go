package holohash

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestAccessors_ReturnCopies(t *testing.T) {
	h := MustParse(TypeAgentPubKey, agentText)
	b := h.Bytes()
	b[0] = 0
	p := h.Payload()
	p[0] = 0
	if h.String() != agentText {
		t.Fatalf("mutating accessor results changed the hash: %s", h)
	}
}

func TestSub_NegativeOffsets(t *testing.T) {
	h := MustParse(TypeAgentPubKey, agentText)

	sum, err := h.Sub(-4, Size)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !bytes.Equal(sum, testChecksum[:]) {
		t.Fatalf("Sub(-4, Size): got %v", sum)
	}

	core, err := h.Sub(PrefixSize, Size)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if len(core) != CoreSize {
		t.Fatalf("Sub(3, 39): got %d bytes", len(core))
	}

	payload, err := h.Sub(-CoreSize, -ChecksumSize)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !bytes.Equal(payload, testPayload[:]) {
		t.Fatalf("Sub(-36, -4): got %v", payload)
	}

	for _, r := range [][2]int{{0, 40}, {-40, 0}, {10, 5}} {
		if _, err := h.Sub(r[0], r[1]); err == nil {
			t.Fatalf("Sub(%d, %d): expected error", r[0], r[1])
		}
	}
}

func TestB64Helpers(t *testing.T) {
	h := MustParse(TypeAgentPubKey, agentText)

	if got := h.PrefixB64(false); got != "hCAk" {
		t.Fatalf("PrefixB64(false): got %s", got)
	}
	if got := h.PrefixB64(true); got != "uhCAk" {
		t.Fatalf("PrefixB64(true): got %s", got)
	}

	if _, err := h.PayloadB64(false); !IsWarning(err) {
		t.Fatalf("PayloadB64 without force should warn, got %v", err)
	}
	payload, err := h.PayloadB64(true)
	if err != nil {
		t.Fatalf("PayloadB64: %v", err)
	}
	if payload != payloadText {
		t.Fatalf("PayloadB64: got %s", payload)
	}

	if _, err := h.ChecksumB64(false); !IsWarning(err) {
		t.Fatalf("ChecksumB64 without force should warn, got %v", err)
	}
	sum, err := h.ChecksumB64(true)
	if err != nil {
		t.Fatalf("ChecksumB64: %v", err)
	}
	if sum != "JTVEFA" {
		t.Fatalf("ChecksumB64: got %s", sum)
	}
}

func TestRetype(t *testing.T) {
	h := MustParse(TypeAgentPubKey, agentText)

	e, err := h.Retype(TypeEntry)
	if err != nil {
		t.Fatalf("Retype: %v", err)
	}
	if e.Type() != TypeEntry || e.String() != entryText {
		t.Fatalf("Retype: got %s %s", e.Type(), e)
	}
	if e.Payload() != h.Payload() || e.Checksum() != h.Checksum() {
		t.Fatalf("Retype must preserve payload and checksum")
	}

	back, err := e.RetypeName("AgentPubKey")
	if err != nil {
		t.Fatalf("RetypeName: %v", err)
	}
	if !back.Equal(h) {
		t.Fatalf("RetypeName: got %s want %s", back, h)
	}

	for _, bad := range []Type{TypeHoloHash, TypeAnyDht, TypeAnyLinkable, Type(0)} {
		if _, err := h.Retype(bad); !IsKind(err, KindUnknownType) {
			t.Fatalf("Retype(%s): expected UnknownType, got %v", bad, err)
		}
	}
	if _, err := h.RetypeName("AnyDhtHash"); !IsKind(err, KindUnknownType) {
		t.Fatalf("RetypeName(AnyDhtHash): expected UnknownType, got %v", err)
	}
	if _, err := h.RetypeName("Bogus"); !IsKind(err, KindUnknownType) {
		t.Fatalf("RetypeName(Bogus): expected UnknownType, got %v", err)
	}
}

func TestRetype_FromBlankGeneric(t *testing.T) {
	g := MustParse(TypeHoloHash, blankText)
	a, err := g.Retype(TypeAgentPubKey)
	if err != nil {
		t.Fatalf("Retype: %v", err)
	}
	if a.String() != agentText {
		t.Fatalf("Retype: got %s", a)
	}
}

func TestEqualAndSamePayload(t *testing.T) {
	a := MustParse(TypeAgentPubKey, agentText)
	e := MustParse(TypeEntry, entryText)
	if !a.Equal(MustParse(TypeAgentPubKey, agentText)) {
		t.Fatalf("identical parses should be equal")
	}
	if a.Equal(e) {
		t.Fatalf("different types should not be equal")
	}
	if !a.SamePayload(e) {
		t.Fatalf("retyped hashes share a payload")
	}
	if a.SamePayload(Hash{}) {
		t.Fatalf("undefined hash has no payload")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	type doc struct {
		Author Hash `json:"author"`
	}
	in := doc{Author: MustParse(TypeAgentPubKey, agentText)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"author":"`+agentText+`"}` {
		t.Fatalf("Marshal: got %s", b)
	}

	var out doc
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !out.Author.Equal(in.Author) {
		t.Fatalf("Unmarshal: got %s (%s)", out.Author, out.Author.Type())
	}

	typed := doc{Author: MustParse(TypeAgentPubKey, agentText)}
	if err := json.Unmarshal([]byte(`{"author":"`+entryText+`"}`), &typed); !IsKind(err, KindBadPrefix) {
		t.Fatalf("Unmarshal into typed hash: expected BadPrefix, got %v", err)
	}
}

func TestUndefinedHash(t *testing.T) {
	var h Hash
	if h.Defined() {
		t.Fatalf("zero Hash should be undefined")
	}
	if h.String() != "" {
		t.Fatalf("String: got %q", h.String())
	}
	if _, err := h.MarshalText(); err == nil {
		t.Fatalf("MarshalText: expected error")
	}
}
