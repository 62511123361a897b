package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// hmacSHA256 signs strings with a shared secret.
type hmacSHA256 struct {
	secret []byte
}

func newHMACSHA256(secret string) *hmacSHA256 {
	return &hmacSHA256{secret: []byte(secret)}
}

// sign returns the hex-encoded HMAC-SHA256 of str.
func (s *hmacSHA256) sign(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	sum := h.Sum(nil)
	result := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(result, sum)
	return result
}

// verify checks signature against str in constant time.
func (s *hmacSHA256) verify(signature, str string) bool {
	return subtle.ConstantTimeCompare([]byte(signature), s.sign(str)) == 1
}
