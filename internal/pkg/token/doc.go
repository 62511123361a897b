// Package token issues anti cross-site request forgery tokens.
//
// A token is 32 random bytes encoded as unpadded standard base64. When the
// generator has a secret, the token is suffixed with "." and a hex HMAC-SHA256
// of the random part, so a server can check that it issued the token without
// storing it.
package token
