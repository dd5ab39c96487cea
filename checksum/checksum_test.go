package checksum

import (
	"bytes"
	"testing"
)

var agentPayload = [PayloadSize]byte{
	207, 39, 6, 42, 162, 2, 95, 176,
	73, 215, 86, 158, 133, 121, 16, 209,
	230, 217, 119, 208, 52, 155, 79, 31,
	250, 159, 28, 212, 252, 178, 226, 227,
}

func TestDerive_KnownVector(t *testing.T) {
	got := Derive(agentPayload)
	want := [Size]byte{37, 53, 68, 20}
	if got != want {
		t.Fatalf("Derive mismatch: got %v want %v", got, want)
	}
}

func TestDerive_SecondVector(t *testing.T) {
	payload := [PayloadSize]byte{
		130, 116, 237, 150, 68, 72, 116, 128,
		83, 221, 230, 142, 102, 103, 244, 152,
		130, 68, 40, 36, 61, 114, 177, 81,
		125, 147, 240, 83, 37, 130, 223, 147,
	}
	got := Derive(payload)
	want := [Size]byte{135, 16, 31, 132}
	if got != want {
		t.Fatalf("Derive mismatch: got %v want %v", got, want)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a := Derive(agentPayload)
	b := Derive(agentPayload)
	if a != b {
		t.Fatalf("expected deterministic checksum")
	}

	other := agentPayload
	other[0] ^= 0xff
	if Derive(other) == a {
		t.Fatalf("expected a different checksum for a different payload")
	}
}

func TestLocation_BigEndian(t *testing.T) {
	if got := Location([Size]byte{37, 53, 68, 20}); got != 624247828 {
		t.Fatalf("Location: got %d want 624247828", got)
	}
	if got := Of(agentPayload); got != 624247828 {
		t.Fatalf("Of: got %d want 624247828", got)
	}
}

func TestFold(t *testing.T) {
	digest := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x10, 0x20, 0x30, 0x40,
		0x01, 0x02, 0x03, 0x04,
		0xff, 0x00, 0xff, 0x00,
	}
	got := Fold(digest, 4)
	want := []byte{0xef, 0x20, 0xcf, 0x40}
	if !bytes.Equal(got, want) {
		t.Fatalf("Fold: got %x want %x", got, want)
	}
	if Fold(digest, 0) != nil {
		t.Fatalf("Fold(n=0) should be nil")
	}
}
