// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification using argon2id.
// Hashes are stored in the PHC string format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned when a stored hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid password hash format")

// Params are the argon2id cost parameters.
type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams follow the OWASP second recommendation (m=19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:  19 * 1024,
	Time:    2,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

type decodedHash struct {
	params Params
	salt   []byte
	key    []byte
}

func decodeHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, ErrInvalidHash
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	d := &decodedHash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.params.Memory, &d.params.Time, &d.params.Threads); err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(d.key) == 0 {
		return nil, ErrInvalidHash
	}
	d.params.SaltLen = uint32(len(d.salt))
	d.params.KeyLen = uint32(len(d.key))
	return d, nil
}

// HashWithParams hashes password with the given cost parameters.
func HashWithParams(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// HashPassword hashes password with DefaultParams. Two calls with the same
// password produce different hashes because of the random salt.
func HashPassword(password string) (string, error) {
	return HashWithParams(password, DefaultParams)
}

// CheckPassword reports whether password matches encodedHash. The key
// comparison is constant-time. A malformed hash is an error, not a mismatch.
func CheckPassword(password, encodedHash string) (bool, error) {
	d, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(password), d.salt, d.params.Time, d.params.Memory, d.params.Threads, d.params.KeyLen)
	return subtle.ConstantTimeCompare(key, d.key) == 1, nil
}

// NeedsRehash reports whether encodedHash was produced with parameters other
// than DefaultParams and should be replaced after a successful login.
func NeedsRehash(encodedHash string) bool {
	d, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	p := d.params
	return p.Memory != DefaultParams.Memory ||
		p.Time != DefaultParams.Time ||
		p.Threads != DefaultParams.Threads ||
		p.KeyLen != DefaultParams.KeyLen
}
