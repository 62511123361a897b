package otp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/shandysiswandi/sectools/internal/pkg/clock"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Enroll creates a secret and provisioning URI for an account name.
	Enroll(accountName string) (Key, error)
	// Validate checks whether code is valid for secret right now.
	Validate(code, secret string) (bool, error)
	// GenerateCode creates the current code for secret.
	GenerateCode(secret string) (string, error)
}

// TOTPConfig holds the TOTP parameters.
type TOTPConfig struct {
	Issuer string
	Period uint
	Skew   uint
	Digits int
}

// Key is the result of enrollment.
type Key struct {
	Secret string
	URI    string
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
	clock  clock.Clocker
}

var _ OTP = (*TOTP)(nil)

// NewTOTP constructs a TOTP instance.
//
// If digits is not 6 or 8, it falls back to 6 digits. A zero period uses the
// common 30 seconds and a zero skew allows one period either side. The issuer
// is required because it is embedded in the provisioning URI.
func NewTOTP(cfg TOTPConfig, clk clock.Clocker) (*TOTP, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, goerror.NewInvalidConfiguration("totp issuer must not be empty", "issuer", "required")
	}

	digits := otp.Digits(cfg.Digits)
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	period := cfg.Period
	if period == 0 {
		period = 30
	}

	skew := cfg.Skew
	if skew == 0 {
		skew = 1
	}

	if clk == nil {
		clk = clock.New()
	}

	return &TOTP{
		issuer: cfg.Issuer,
		period: period,
		skew:   skew,
		digits: digits,
		clock:  clk,
	}, nil
}

// Enroll creates a secret and provisioning URI for an account name.
func (o *TOTP) Enroll(accountName string) (Key, error) {
	if strings.TrimSpace(accountName) == "" {
		return Key{}, goerror.NewInvalidArgument("account name must not be empty")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  20, // RFC 4226/6238 recommendation
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Key{}, goerror.NewServer(err)
	}

	return Key{Secret: key.Secret(), URI: key.URL()}, nil
}

// Validate checks whether code is valid for secret at the clock's current time.
//
// A wrong code is false with a nil error. A code of the wrong length or a
// secret that is not base32 is an error, never a plain false.
func (o *TOTP) Validate(code, secret string) (bool, error) {
	rv, err := totp.ValidateCustom(code, secret, o.clock.Now(), o.opts())
	if errors.Is(err, otp.ErrValidateInputInvalidLength) {
		return false, goerror.NewInvalidArgument(fmt.Sprintf("totp code must have %d digits", o.digits.Length()))
	}
	if err != nil {
		return false, goerror.NewInvalidFormat(err, "totp secret is not valid base32")
	}

	return rv, nil
}

// GenerateCode creates the code for secret at the clock's current time.
func (o *TOTP) GenerateCode(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, o.clock.Now(), o.opts())
	if err != nil {
		return "", goerror.NewInvalidFormat(err, "totp secret is not valid base32")
	}

	return code, nil
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
