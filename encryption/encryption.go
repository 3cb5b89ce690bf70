package encryption

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrDecrypt is returned for any ciphertext that cannot be recovered:
// wrong key, truncated input, bad base64, tampered data. Callers scan
// over mixed records and rely on this being an error, never a panic.
var ErrDecrypt = errors.New("encryption: cannot decrypt value")

// Codec encrypts and decrypts bearer secrets with a process-wide key.
// The key is derived from the configured secret by SHA-256, so any
// non-empty secret string works.
type Codec struct {
	key []byte
}

// NewCodec derives the AEAD key from secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("encryption: empty secret")
	}
	key := sha256.Sum256([]byte(secret))
	return &Codec{key: key[:]}, nil
}

// Encrypt seals plaintext with a random nonce and returns base64.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Foreign or malformed input yields
// ErrDecrypt.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecrypt
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}

	if len(raw) < aead.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
