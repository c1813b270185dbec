package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemoryKB    uint32 = 64 * 1024
	defaultTimeCost    uint32 = 2
	defaultParallelism uint8  = 2
	defaultSaltLength  uint32 = 16
	defaultKeyLength   uint32 = 32
	algorithmID               = "argon2id"
)

// Config tunes the argon2id cost parameters. Zero values fall back to the
// package defaults at construction.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher hashes and verifies passwords. A Hasher is immutable after
// construction and safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher applies defaults for unset fields and rejects parameters below
// the floor the algorithm is safe with.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Memory == 0 {
		cfg.Memory = defaultMemoryKB
	}
	if cfg.Time == 0 {
		cfg.Time = defaultTimeCost
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = defaultParallelism
	}
	if cfg.SaltLength == 0 {
		cfg.SaltLength = defaultSaltLength
	}
	if cfg.KeyLength == 0 {
		cfg.KeyLength = defaultKeyLength
	}

	if cfg.Memory < 8*1024 {
		return nil, errors.New("password: memory must be >= 8192 KB")
	}
	if cfg.SaltLength < 16 || cfg.KeyLength < 16 {
		return nil, errors.New("password: salt and key length must be >= 16")
	}

	return &Hasher{config: cfg}, nil
}

// Hash derives an argon2id hash of the raw password bytes and encodes it as
// a PHC string carrying the parameters and salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	sum := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(sum),
	), nil
}

// Verify recomputes the hash under the parameters embedded in encodedHash
// and compares in constant time.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	memory, timeCost, parallelism, salt, want, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memory, parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parsePHC(encodedHash string) (memory, timeCost uint32, parallelism uint8, salt, hash []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return 0, 0, 0, nil, nil, errors.New("password: invalid PHC format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.New("password: unsupported argon2 version")
	}

	var p uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &p); err != nil {
		return 0, 0, 0, nil, nil, errors.New("password: invalid parameters")
	}
	if p == 0 || p > 255 {
		return 0, 0, 0, nil, nil, errors.New("password: invalid parallelism")
	}
	parallelism = uint8(p)

	salt, err = base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < 16 {
		return 0, 0, 0, nil, nil, errors.New("password: invalid salt")
	}

	hash, err = base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return 0, 0, 0, nil, nil, errors.New("password: invalid hash")
	}

	return memory, timeCost, parallelism, salt, hash, nil
}
