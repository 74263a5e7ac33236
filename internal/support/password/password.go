// Package password derives and checks stored credential hashes.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var ErrMalformedHash = errors.New("malformed password hash")

type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password produces hash. An empty hash never matches.
	Verify(hash string, password string) (bool, error)
}

// New returns the hasher registered under name.
func New(name string) (Hasher, error) {
	switch name {
	case "sha256":
		return NewSHA256(), nil
	case "argon2id":
		return NewArgon2id(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// NewSHA256 returns the legacy hasher: base64 of an unsalted SHA-256 digest.
// Output is deterministic, which existing stored rows depend on.
func NewSHA256() Hasher {
	return sha256Hasher{}
}

type sha256Hasher struct{}

func (sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))

	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h sha256Hasher) Verify(hash string, password string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	candidate, _ := h.Hash(password)

	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1, nil
}

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// NewArgon2id returns a salted, memory-hard hasher producing PHC-style strings.
func NewArgon2id() Hasher {
	return argon2idHasher{}
}

type argon2idHasher struct{}

func (argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)

	_, err := rand.Read(salt)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (argon2idHasher) Verify(hash string, password string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	_, err := fmt.Sscanf(parts[2], "v=%d", &version)
	if err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, iterations uint32
	var threads uint8
	_, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads)
	if err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedHash
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}
