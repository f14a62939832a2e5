// Package password derives and verifies salted scrypt password digests.
//
// A digest is encoded as "<hex derived key>.<hex salt>", so the salt travels
// with the digest and needs no separate storage.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const separator = "."

// Params are the scrypt cost parameters.
type Params struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// DefaultParams match the scrypt defaults of the Node.js crypto module.
var DefaultParams = Params{
	N:       16384,
	R:       8,
	P:       1,
	KeyLen:  64,
	SaltLen: 16,
}

type Hasher struct {
	params Params
}

func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// New returns a Hasher using DefaultParams.
func New() *Hasher {
	return NewHasher(DefaultParams)
}

// Hash derives a digest for plaintext using a fresh random salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := h.derive(plaintext, salt)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(key) + separator + hex.EncodeToString(salt), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is
// logged and treated as a mismatch.
func (h *Hasher) Verify(plaintext, digest string) bool {
	encodedKey, encodedSalt, ok := strings.Cut(digest, separator)
	if !ok || encodedKey == "" || encodedSalt == "" {
		slog.Warn("malformed password digest", "reason", "missing separator")
		return false
	}

	want, err := hex.DecodeString(encodedKey)
	if err != nil || len(want) != h.params.KeyLen {
		slog.Warn("malformed password digest", "reason", "invalid derived key")
		return false
	}

	salt, err := hex.DecodeString(encodedSalt)
	if err != nil {
		slog.Warn("malformed password digest", "reason", "invalid salt")
		return false
	}

	got, err := h.derive(plaintext, salt)
	if err != nil {
		slog.Warn("failed to derive password key", "error", err)
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}

func (h *Hasher) derive(plaintext string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(plaintext), salt, h.params.N, h.params.R, h.params.P, h.params.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	return key, nil
}
