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

var (
	// ErrInvalidHash is returned when an encoded hash is not an argon2id PHC string.
	ErrInvalidHash = errors.New("invalid argon2id hash")

	// ErrIncompatibleVersion is returned for hashes produced by another argon2 version.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Params tunes argon2id key hashing.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams matches the defaults of the common argon2 tooling.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// HashKey returns the argon2id PHC string of key, with a random salt.
func HashKey(key string, p Params) (string, error) {
	if key == "" {
		return "", errors.New("api key must not be empty")
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(key), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// KeyVerifier checks API keys against an argon2id hash.
type KeyVerifier struct {
	params Params
	salt   []byte
	sum    []byte
}

// NewKeyVerifier parses encodedHash. An empty hash yields a verifier that
// rejects every key.
func NewKeyVerifier(encodedHash string) (*KeyVerifier, error) {
	if encodedHash == "" {
		return &KeyVerifier{}, nil
	}

	params, salt, sum, err := decodeHash(encodedHash)
	if err != nil {
		return nil, err
	}
	return &KeyVerifier{params: params, salt: salt, sum: sum}, nil
}

// Verify reports whether key matches the configured hash.
func (v *KeyVerifier) Verify(key string) bool {
	if len(v.sum) == 0 || key == "" {
		return false
	}
	other := argon2.IDKey([]byte(key), v.salt, v.params.Iterations, v.params.Memory, v.params.Parallelism, v.params.KeyLength)
	return subtle.ConstantTimeCompare(v.sum, other) == 1
}

func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return Params{}, nil, nil, ErrIncompatibleVersion
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	sum, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return Params{}, nil, nil, ErrInvalidHash
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(sum))

	return p, salt, sum, nil
}
