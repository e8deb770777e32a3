// Package password provides argon2id password hashing and verification.
//
// Hashes are self-describing PHC strings:
//
//	$argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$DIGEST
//
// so verification always recomputes with the parameters embedded in the
// stored hash, not the currently configured ones.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash reports a stored hash that cannot be parsed. This is a
// server fault, distinct from a password that simply does not match.
var ErrMalformedHash = errors.New("password: malformed argon2id hash")

// Hasher hashes and verifies passwords with argon2id.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Params pins the argon2id cost parameters. Zero values fall back to the
// defaults below.
type Params struct {
	Time    uint32 `yaml:"time" mapstructure:"time"`
	Memory  uint32 `yaml:"memory" mapstructure:"memory"`
	Threads uint8  `yaml:"threads" mapstructure:"threads"`
}

// NewHasher creates an argon2id hasher. Defaults follow OWASP
// recommendations: time=1, memory=64MiB, threads=4, keyLen=32, saltLen=16.
func NewHasher(params Params) *Hasher {
	h := &Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	if params.Time != 0 {
		h.time = params.Time
	}
	if params.Memory != 0 {
		h.memory = params.Memory
	}
	if params.Threads != 0 {
		h.threads = params.Threads
	}
	return h
}

// Hash derives an argon2id hash of the password under a fresh random salt.
// It fails only if the random source fails; any valid UTF-8 input hashes.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify recomputes the digest with the parameters embedded in encodedHash
// and compares in constant time. A mismatching password returns (false, nil);
// a hash that cannot be parsed returns ErrMalformedHash.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: parse version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%w: parse params: %v", ErrMalformedHash, err)
	}
	// argon2.IDKey panics on zero time or threads rather than returning an
	// error, so degenerate params must be rejected here.
	if time == 0 || threads == 0 {
		return false, fmt.Errorf("%w: params t=%d,p=%d out of range", ErrMalformedHash, time, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: decode salt: %v", ErrMalformedHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: decode digest: %v", ErrMalformedHash, err)
	}
	if len(salt) == 0 || len(expected) == 0 {
		return false, fmt.Errorf("%w: empty salt or digest", ErrMalformedHash)
	}

	digest := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(digest, expected) == 1, nil
}
