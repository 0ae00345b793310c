// Package cryptox holds the password hashing used for stored credentials.
//
// Hashes are argon2id encoded in PHC string form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	saltLen      = 16
	keyLen       = 32
)

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidHash   = errors.New("invalid password hash")
)

// randRead is a seam for tests.
var randRead = rand.Read

// HashPassword derives a salted argon2id hash of password.
func HashPassword(password []byte) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, saltLen)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encoded. Comparison of the
// derived keys is constant-time.
func VerifyPassword(password []byte, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}
	if time == 0 || threads == 0 {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrInvalidHash
	}

	got := argon2.IDKey(password, salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// WipeByteArray zeroes b. Nil is fine.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
