package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Cipher seals MFA secrets with AES-256-GCM. A Cipher built from an empty
// key passes values through unchanged so development setups work without
// DATA_ENCRYPTION_KEY.
type Cipher struct {
	aead cipher.AEAD
}

func New(key string) (*Cipher, error) {
	if key == "" {
		return &Cipher{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Configured() bool {
	return c.aead != nil
}

func (c *Cipher) EncryptString(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !c.Configured() {
		return []byte(value), nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, []byte(value), nil), nil
}

func (c *Cipher) DecryptString(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if !c.Configured() {
		return string(sealed), nil
	}
	size := c.aead.NonceSize()
	if len(sealed) < size {
		return "", ErrCiphertextTooShort
	}
	plain, err := c.aead.Open(nil, sealed[:size], sealed[size:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt secret: %w", err)
	}
	return string(plain), nil
}

// decodeKey accepts hex, padded or raw base64, or the raw bytes.
func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil {
			return decoded
		}
	}
	return []byte(raw)
}
