package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// DefaultSize is the number of random bytes in a token.
const DefaultSize = 32

const separator = "."

var encoding = base64.StdEncoding.WithPadding(base64.NoPadding)

// CSRF generates anti-CSRF tokens.
type CSRF struct {
	size   int
	signer *hmacSHA256
	random io.Reader
}

// NewCSRF returns a generator producing tokens of size random bytes. Zero
// selects DefaultSize. A non-empty secret makes tokens signed and verifiable.
func NewCSRF(size int, secret string) (*CSRF, error) {
	if size < 0 {
		return nil, goerror.NewInvalidConfiguration("csrf token size cannot be negative", "size", "must be 0 or greater")
	}
	if size == 0 {
		size = DefaultSize
	}

	c := &CSRF{size: size, random: rand.Reader}
	if secret != "" {
		c.signer = newHMACSHA256(secret)
	}

	return c, nil
}

// Signed reports whether tokens carry an HMAC signature.
func (c *CSRF) Signed() bool {
	return c.signer != nil
}

// Generate returns a fresh token.
func (c *CSRF) Generate() (string, error) {
	buf := make([]byte, c.size)
	if _, err := io.ReadFull(c.random, buf); err != nil {
		return "", goerror.NewServer(fmt.Errorf("failed to read random bytes: %w", err))
	}

	tok := encoding.EncodeToString(buf)
	if c.signer == nil {
		return tok, nil
	}

	return tok + separator + string(c.signer.sign(tok)), nil
}

// Verify reports whether tok was issued by a generator with the same secret.
//
// Unsigned generators cannot verify and return InvalidConfiguration. A token
// that does not have the signed shape is a FormatError.
func (c *CSRF) Verify(tok string) (bool, error) {
	if c.signer == nil {
		return false, goerror.NewInvalidConfiguration("csrf secret is not configured")
	}
	if strings.TrimSpace(tok) == "" {
		return false, goerror.NewInvalidArgument("csrf token must not be empty")
	}

	payload, signature, ok := strings.Cut(tok, separator)
	if !ok || payload == "" || signature == "" {
		return false, goerror.NewInvalidFormat(nil, "csrf token is not signed")
	}
	if _, err := encoding.DecodeString(payload); err != nil {
		return false, goerror.NewInvalidFormat(err, "csrf token payload is not base64")
	}

	return c.signer.verify(signature, payload), nil
}

// Equal compares a submitted token with the expected one in constant time.
func Equal(expected, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
