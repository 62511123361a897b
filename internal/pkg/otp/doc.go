// Package otp generates one-time codes.
//
// CodeGenerator produces plain random decimal codes for out-of-band delivery
// (email, SMS). TOTP implements RFC 6238 time-based codes for authenticator
// apps on top of github.com/pquerna/otp.
package otp
