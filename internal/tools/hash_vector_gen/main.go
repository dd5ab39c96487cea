package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/keys"
	"holohash.dev/holohash/model"
)

func mustKeypair(seedByte byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}

type vector struct {
	Name  string         `json:"name"`
	Input string         `json:"input"`
	View  model.HashView `json:"view"`
}

func main() {
	var vectors []vector

	var payload [holohash.PayloadSize]byte
	if _, err := hex.Decode(payload[:], []byte("cf27062aa2025fb049d7569e857910d1e6d977d0349b4f1ffa9f1cd4fcb2e2e3")); err != nil {
		panic(err)
	}
	for _, t := range holohash.Types() {
		h, err := holohash.FromPayload(t, payload)
		if err != nil {
			panic(err)
		}
		vectors = append(vectors, vector{
			Name:  "payload/" + t.String(),
			Input: hex.EncodeToString(payload[:]),
			View:  model.NewHashView(h),
		})
	}

	for _, content := range []string{"", "hello"} {
		h := cidutil.EntryHash([]byte(content))
		vectors = append(vectors, vector{
			Name:  "content/EntryHash",
			Input: content,
			View:  model.NewHashView(h),
		})
	}

	pub, priv := mustKeypair(0xA1)
	agent, err := keys.AgentPubKey(pub)
	if err != nil {
		panic(err)
	}
	vectors = append(vectors, vector{
		Name:  "agent/seed-a1",
		Input: hex.EncodeToString(priv.Seed()),
		View:  model.NewHashView(agent),
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vectors); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
