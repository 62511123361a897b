package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"golang.org/x/crypto/pbkdf2"
)

// Config controls PBKDF2 hashing cost and output sizes.
type Config struct {
	SaltLength int
	KeyLength  int
	Iterations int
	Algorithm  Algorithm
}

// DefaultConfig returns the baseline: 16-byte salt, 64-byte key, 100 000
// iterations of PBKDF2-HMAC-SHA512.
func DefaultConfig() Config {
	return Config{
		SaltLength: 16,
		KeyLength:  64,
		Iterations: 100_000,
		Algorithm:  SHA512,
	}
}

// PBKDF2 hashes and verifies passwords using PBKDF2 and self-describing records.
type PBKDF2 struct {
	cfg    Config
	random io.Reader
}

// NewPBKDF2 returns a hasher for cfg, or an InvalidConfiguration error.
func NewPBKDF2(cfg Config) (*PBKDF2, error) {
	switch {
	case cfg.SaltLength < 1:
		return nil, goerror.NewInvalidConfiguration("salt length must be positive")
	case cfg.KeyLength < 1:
		return nil, goerror.NewInvalidConfiguration("key length must be positive")
	case cfg.Iterations < 1:
		return nil, goerror.NewInvalidConfiguration("iteration count must be positive")
	case !cfg.Algorithm.Valid():
		return nil, goerror.NewInvalidConfiguration(fmt.Sprintf("algorithm %q is not supported", cfg.Algorithm))
	}

	return &PBKDF2{cfg: cfg, random: rand.Reader}, nil
}

// Config returns the parameters new records are created with.
func (p *PBKDF2) Config() Config {
	return p.cfg
}

// Hash derives a fresh salted key for password and returns the serialized record.
func (p *PBKDF2) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", goerror.NewInvalidArgument("password to hash must not be empty")
	}

	salt := make([]byte, p.cfg.SaltLength)
	if _, err := io.ReadFull(p.random, salt); err != nil {
		return "", goerror.NewServer(fmt.Errorf("failed to generate salt: %w", err))
	}

	rec := Record{
		Key:        derive(password, salt, p.cfg.Iterations, p.cfg.KeyLength, p.cfg.Algorithm),
		Salt:       salt,
		Iterations: p.cfg.Iterations,
		Algorithm:  p.cfg.Algorithm,
	}

	return rec.String(), nil
}

// Verify reports whether password matches record.
//
// Parameters are taken from the record, not from the hasher config, so records
// issued under older settings keep verifying. A malformed record is an error,
// never a plain false.
func (p *PBKDF2) Verify(password, record string) (bool, error) {
	if strings.TrimSpace(password) == "" {
		return false, goerror.NewInvalidArgument("password to verify must not be empty")
	}
	if strings.TrimSpace(record) == "" {
		return false, goerror.NewInvalidArgument("hash record must not be empty")
	}

	rec, err := ParseRecord(record)
	if err != nil {
		return false, err
	}

	computed := derive(password, rec.Salt, rec.Iterations, len(rec.Key), rec.Algorithm)

	return keysEqual(rec.Key, computed), nil
}

func derive(password string, salt []byte, iterations, keyLength int, algorithm Algorithm) []byte {
	prf, _ := algorithm.prf()
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, prf)
}

// keysEqual compares in time independent of where the first differing byte is.
func keysEqual(expected, computed []byte) bool {
	return subtle.ConstantTimeCompare(expected, computed) == 1
}
