package app

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := "I miss you already. Talk later?"
	stored := encryptContent(testKey, plain)

	if stored == plain {
		t.Fatalf("content should not be stored in the clear with a key present")
	}
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		t.Fatalf("stored format = %q, want hex(iv):hex(ct)", stored)
	}

	if got := decryptContent(testKey, stored); got != plain {
		t.Fatalf("round trip = %q, want %q", got, plain)
	}
}

func TestEncryptRandomizesIV(t *testing.T) {
	a := encryptContent(testKey, "same text")
	b := encryptContent(testKey, "same text")
	if a == b {
		t.Fatalf("two encryptions should differ via the IV")
	}
}

func TestEncryptNoKeyIsPassthrough(t *testing.T) {
	plain := "stored in the clear"
	if got := encryptContent(nil, plain); got != plain {
		t.Fatalf("encrypt without key = %q, want passthrough", got)
	}
	if got := decryptContent(nil, plain); got != plain {
		t.Fatalf("decrypt without key = %q, want passthrough", got)
	}
}

func TestEncryptBadKeyFallsBackToClear(t *testing.T) {
	plain := "message survives a bad key"
	if got := encryptContent([]byte("short"), plain); got != plain {
		t.Fatalf("bad key should fall back to clear text, got %q", got)
	}
}

func TestDecryptLegacyClearTextRows(t *testing.T) {
	// Rows written before the key existed, with or without a colon.
	for _, stored := range []string{
		"plain old message",
		"notes: remember to call",
		"deadbeef:not-hex!",
	} {
		if got := decryptContent(testKey, stored); got != stored {
			t.Fatalf("decrypt(%q) = %q, want unchanged", stored, got)
		}
	}
}

func TestDecryptTruncatedCiphertextReturnsStored(t *testing.T) {
	stored := encryptContent(testKey, "secret")
	// Chop two hex chars off the ciphertext so it is no longer block-aligned.
	truncated := stored[:len(stored)-2]
	if got := decryptContent(testKey, truncated); got != truncated {
		t.Fatalf("truncated ciphertext should return stored text, got %q", got)
	}
}

func TestEncryptEmptyString(t *testing.T) {
	stored := encryptContent(testKey, "")
	if got := decryptContent(testKey, stored); got != "" {
		t.Fatalf("empty round trip = %q, want empty", got)
	}
}
