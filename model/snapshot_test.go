package model

import (
	"encoding/json"
	"testing"

	"holohash.dev/holohash/holohash"
)

const agentText = "uhCAkzycGKqICX7BJ11aehXkQ0ebZd9A0m08f-p8c1Pyy4uMlNUQU"

func TestSnapshot_HashView_JSONShape(t *testing.T) {
	v := NewHashView(holohash.MustParse(holohash.TypeAgentPubKey, agentText))

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"type\": \"AgentPubKey\",\n" +
		"  \"hash\": \"uhCAkzycGKqICX7BJ11aehXkQ0ebZd9A0m08f-p8c1Pyy4uMlNUQU\",\n" +
		"  \"prefix\": \"hCAk\",\n" +
		"  \"payload\": \"cf27062aa2025fb049d7569e857910d1e6d977d0349b4f1ffa9f1cd4fcb2e2e3\",\n" +
		"  \"checksum\": \"25354414\",\n" +
		"  \"location\": 624247828,\n" +
		"  \"cid\": \"bafkqaigpe4dcviqcl6yetv2wt2cxsegr43mxpubutnhr76u7dtkpzmxc4m\"\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_EntryView_UsesBlake2bCID(t *testing.T) {
	h := holohash.MustParse(holohash.TypeEntry, "uhCEkzycGKqICX7BJ11aehXkQ0ebZd9A0m08f-p8c1Pyy4uMlNUQU")
	v := NewHashView(h)
	if v.CID != "bafk2bzacedhsobrkuibf7mcj25lj5blzcdi6nwlx2a2jwty77kprzvh4wlrog" {
		t.Fatalf("cid: got %s", v.CID)
	}
}

func TestSnapshot_CodedError_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewError(ErrInvalidHash, "bad"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"code":"INVALID_HASH","message":"bad"}` {
		t.Fatalf("snapshot mismatch: %s", b)
	}
}
