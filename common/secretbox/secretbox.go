// Package secretbox encrypts small secrets (connection credentials, webhook
// signing secrets) at rest. Keys are derived per tenant from one master key.
package secretbox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const minMasterKeyLen = 32

var (
	ErrMasterKeyTooShort = errors.New("secretbox: master key must be at least 32 bytes")
	ErrCiphertext        = errors.New("secretbox: ciphertext is malformed or was tampered with")
)

// Box seals and opens values bound to a tenant and a purpose.
type Box struct {
	master []byte
}

// New accepts a raw or base64 (std) encoded master key.
func New(masterKey string) (*Box, error) {
	key := []byte(masterKey)
	if decoded, err := base64.StdEncoding.DecodeString(masterKey); err == nil && len(decoded) >= minMasterKeyLen {
		key = decoded
	}
	if len(key) < minMasterKeyLen {
		return nil, ErrMasterKeyTooShort
	}
	return &Box{master: key}, nil
}

func (b *Box) aead(orgID int64, purpose string) (cipherAEAD, error) {
	salt := []byte(strconv.FormatInt(orgID, 10))
	r := hkdf.New(sha256.New, b.master, salt, []byte(purpose))

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}

// Seal returns nonce || ciphertext.
func (b *Box) Seal(orgID int64, purpose string, plaintext []byte) ([]byte, error) {
	aead, err := b.aead(orgID, purpose)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (b *Box) Open(orgID int64, purpose string, sealed []byte) ([]byte, error) {
	aead, err := b.aead(orgID, purpose)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrCiphertext
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCiphertext
	}
	return plaintext, nil
}

type cipherAEAD interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}
