package holohash

import (
	"fmt"
	"strings"
	"testing"
)

func TestIsKind_Wrapped(t *testing.T) {
	_, err := Parse(TypeAgentPubKey, entryText)
	wrapped := fmt.Errorf("load author: %w", err)
	if !IsKind(wrapped, KindBadPrefix) {
		t.Fatalf("IsKind should see through wrapping")
	}
	if KindOf(wrapped) != KindBadPrefix {
		t.Fatalf("KindOf: got %q", KindOf(wrapped))
	}
	if IsKind(fmt.Errorf("plain"), KindBadPrefix) || KindOf(nil) != "" {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestErrorMessages(t *testing.T) {
	_, err := Parse(TypeAgentPubKey, entryText)
	if msg := err.Error(); !strings.Contains(msg, "hCEk") || !strings.Contains(msg, "AgentPubKey=hCAk") {
		t.Fatalf("BadPrefix message: %s", msg)
	}

	_, err = Parse(TypeAgentPubKey, badChecksumText)
	if msg := err.Error(); !strings.Contains(msg, "[37 53 71 148]") || !strings.Contains(msg, "[37 53 68 20]") {
		t.Fatalf("BadChecksum message: %s", msg)
	}

	_, err = MustParse(TypeAgentPubKey, agentText).RetypeName("Nope")
	if msg := err.Error(); !strings.Contains(msg, "Nope") || !strings.Contains(msg, "ExternalHash") {
		t.Fatalf("UnknownType message: %s", msg)
	}
}

func TestBadTextEncoding_KeepsCause(t *testing.T) {
	_, err := Parse(TypeAgentPubKey, "uhCAk!!!!")
	var herr *Error
	if !asError(err, &herr) || herr.Kind != KindBadTextEncoding {
		t.Fatalf("expected BadTextEncoding, got %v", err)
	}
	if herr.Cause == nil {
		t.Fatalf("expected underlying decode error")
	}
}
