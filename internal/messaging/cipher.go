package messaging

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	separator = ":"
	keyInfo   = "eventdesk whatsapp credential v1"
)

var ErrMalformedCiphertext = errors.New("messaging: malformed ciphertext")

// Cipher seals credentials with AES-256-GCM. Sealed values are
// hex(nonce):hex(tag):hex(ciphertext).
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the AES key from secret with HKDF-SHA256.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("messaging: empty encryption secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - c.aead.Overhead()
	ct, tag := sealed[:split], sealed[split:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ct),
	}, separator), nil
}

// Decrypt returns values without a separator unchanged. Tokens stored
// before encryption was introduced are still readable this way.
func (c *Cipher) Decrypt(value string) (string, error) {
	if !strings.Contains(value, separator) {
		return value, nil
	}
	parts := strings.Split(value, separator)
	if len(parts) != 3 {
		return "", ErrMalformedCiphertext
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", ErrMalformedCiphertext
	}
	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	plain, err := c.aead.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("messaging: open credential: %w", err)
	}
	return string(plain), nil
}
