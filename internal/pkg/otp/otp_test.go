package otp

import (
	"net/url"
	"testing"
	"time"

	"github.com/shandysiswandi/sectools/internal/pkg/clock"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6238 test secret "12345678901234567890" in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func newTOTP(t *testing.T, at time.Time) *TOTP {
	t.Helper()

	o, err := NewTOTP(TOTPConfig{Issuer: "sectools", Digits: 8}, clock.Fixed(at))
	require.NoError(t, err)
	return o
}

func TestNewTOTP_Defaults(t *testing.T) {
	o, err := NewTOTP(TOTPConfig{Issuer: "sectools", Digits: 7}, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 30, o.period)
	assert.EqualValues(t, 1, o.skew)
	assert.EqualValues(t, 6, o.digits)
	assert.NotNil(t, o.clock)
}

func TestNewTOTP_MissingIssuer(t *testing.T) {
	o, err := NewTOTP(TOTPConfig{Issuer: "  "}, nil)
	assert.Nil(t, o)
	assert.ErrorIs(t, err, goerror.ErrInvalidConfiguration)
}

func TestTOTP_RFC6238Vectors(t *testing.T) {
	tests := []struct {
		unix int64
		code string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
	}

	for _, tt := range tests {
		o := newTOTP(t, time.Unix(tt.unix, 0).UTC())

		code, err := o.GenerateCode(rfcSecret)
		require.NoError(t, err)
		assert.Equal(t, tt.code, code)

		ok, err := o.Validate(tt.code, rfcSecret)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestTOTP_EnrollAndValidate(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := newTOTP(t, now)

	key, err := o.Enroll("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Secret)

	u, err := url.Parse(key.URI)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "sectools", u.Query().Get("issuer"))
	assert.Equal(t, key.Secret, u.Query().Get("secret"))

	code, err := o.GenerateCode(key.Secret)
	require.NoError(t, err)
	ok, err := o.Validate(code, key.Secret)
	require.NoError(t, err)
	assert.True(t, ok)

	// Outside the one-period skew window.
	ok, err = newTOTP(t, now.Add(5*time.Minute)).Validate(code, key.Secret)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTOTP_EnrollEmptyAccount(t *testing.T) {
	_, err := newTOTP(t, time.Now()).Enroll("")
	assert.ErrorIs(t, err, goerror.ErrInvalidArgument)
}

func TestTOTP_BadSecret(t *testing.T) {
	o := newTOTP(t, time.Now())

	_, err := o.GenerateCode("not base32 !!")
	assert.ErrorIs(t, err, goerror.ErrFormat)

	ok, err := o.Validate("12345678", "not base32 !!")
	assert.ErrorIs(t, err, goerror.ErrFormat)
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))
	assert.False(t, ok)
}

func TestTOTP_ValidateWrongLength(t *testing.T) {
	o := newTOTP(t, time.Unix(59, 0).UTC())

	ok, err := o.Validate("942870", rfcSecret)
	assert.ErrorIs(t, err, goerror.ErrInvalidArgument)
	assert.False(t, ok)
}
