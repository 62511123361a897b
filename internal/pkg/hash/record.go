package hash

import (
	"crypto/sha1" //nolint:gosec // SHA1 is accepted only to verify previously issued records.
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"strconv"
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

const (
	recordDelimiter = ":"
	recordFields    = 4
)

// Algorithm names the pseudorandom function used by the key derivation.
//
// Values use the same spelling as the .NET HashAlgorithmName so records stay
// byte-compatible with stores populated by other implementations.
type Algorithm string

const (
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	SHA384 Algorithm = "SHA384"
	SHA512 Algorithm = "SHA512"
)

func (a Algorithm) prf() (func() gohash.Hash, bool) {
	switch a {
	case SHA1:
		return sha1.New, true
	case SHA256:
		return sha256.New, true
	case SHA384:
		return sha512.New384, true
	case SHA512:
		return sha512.New, true
	default:
		return nil, false
	}
}

// Valid reports whether a is a supported algorithm tag.
func (a Algorithm) Valid() bool {
	_, ok := a.prf()
	return ok
}

// Record is the persisted representation of one password hash.
//
// Text form: <KEYHEX>:<SALTHEX>:<iterations>:<algorithm>, hex in uppercase.
type Record struct {
	Key        []byte
	Salt       []byte
	Iterations int
	Algorithm  Algorithm
}

// String serializes the record in its stored text form.
func (r Record) String() string {
	return strings.Join([]string{
		strings.ToUpper(hex.EncodeToString(r.Key)),
		strings.ToUpper(hex.EncodeToString(r.Salt)),
		strconv.Itoa(r.Iterations),
		string(r.Algorithm),
	}, recordDelimiter)
}

// ParseRecord reads a record from its text form.
//
// Fields are read strictly by position. Hex is accepted in either case. Any
// shape problem yields a goerror with CodeInvalidFormat.
func ParseRecord(s string) (Record, error) {
	parts := strings.Split(s, recordDelimiter)
	if len(parts) != recordFields {
		return Record{}, goerror.NewInvalidFormat(nil,
			fmt.Sprintf("hash record must have %d fields, got %d", recordFields, len(parts)))
	}

	key, err := hex.DecodeString(parts[0])
	if err != nil {
		return Record{}, goerror.NewInvalidFormat(err, "hash record key is not hex")
	}
	if len(key) == 0 {
		return Record{}, goerror.NewInvalidFormat(nil, "hash record key is empty")
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return Record{}, goerror.NewInvalidFormat(err, "hash record salt is not hex")
	}
	if len(salt) == 0 {
		return Record{}, goerror.NewInvalidFormat(nil, "hash record salt is empty")
	}

	if !isCanonicalUint(parts[2]) {
		return Record{}, goerror.NewInvalidFormat(nil, "hash record iteration count must be plain decimal digits")
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil {
		return Record{}, goerror.NewInvalidFormat(err, "hash record iteration count is not numeric")
	}
	if iterations < 1 {
		return Record{}, goerror.NewInvalidFormat(nil, "hash record iteration count must be positive")
	}

	algorithm := Algorithm(parts[3])
	if !algorithm.Valid() {
		return Record{}, goerror.NewInvalidFormat(nil,
			fmt.Sprintf("hash record algorithm %q is not supported", parts[3]))
	}

	return Record{
		Key:        key,
		Salt:       salt,
		Iterations: iterations,
		Algorithm:  algorithm,
	}, nil
}

// isCanonicalUint reports whether s is the form strconv.Itoa writes for a
// non-negative int: digits only, no sign, no leading zero.
func isCanonicalUint(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
