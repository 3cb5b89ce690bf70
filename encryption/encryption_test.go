package encryption

import (
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	inputs := []string{
		"moltnet_0123456789abcdef",
		"",
		"short",
		"with spaces and symbols !@#$%^&*()",
		"unicode 提交 ключ",
	}
	for _, input := range inputs {
		ciphertext, err := codec.Encrypt(input)
		if err != nil {
			t.Fatalf("encrypt %q: %v", input, err)
		}
		if ciphertext == input && input != "" {
			t.Fatalf("ciphertext equals plaintext for %q", input)
		}

		plaintext, err := codec.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("decrypt %q: %v", input, err)
		}
		if plaintext != input {
			t.Fatalf("round trip mismatch: got %q, want %q", plaintext, input)
		}
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	a, _ := codec.Encrypt("same input")
	b, _ := codec.Encrypt("same input")
	if a == b {
		t.Fatalf("expected distinct ciphertexts for repeated input")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	for _, input := range []string{
		"",
		"not base64 at all!!!",
		"AAAA",
		"c2hvcnQ=",
	} {
		if _, err := codec.Decrypt(input); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("decrypt %q: got %v, want ErrDecrypt", input, err)
		}
	}
}

func TestDecryptRejectsForeignKey(t *testing.T) {
	codecA, _ := NewCodec("secret-a")
	codecB, _ := NewCodec("secret-b")

	ciphertext, err := codecA.Encrypt("moltnet_deadbeef")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := codecB.Decrypt(ciphertext); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("foreign decrypt: got %v, want ErrDecrypt", err)
	}
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
