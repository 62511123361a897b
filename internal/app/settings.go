package app

import (
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/hash"
	"github.com/shandysiswandi/sectools/internal/pkg/instrument"
	"github.com/shandysiswandi/sectools/internal/pkg/otp"
	"github.com/shandysiswandi/sectools/internal/pkg/passpolicy"
	"github.com/shandysiswandi/sectools/internal/pkg/token"
)

const envPrefix = "SECTOOLS"

// Settings is the decoded and validated configuration.
type Settings struct {
	App        AppSettings        `mapstructure:"app"`
	Instrument InstrumentSettings `mapstructure:"instrument"`
	Hash       HashSettings       `mapstructure:"hash"`
	Policy     PolicySettings     `mapstructure:"policy"`
	Sanitize   SanitizeSettings   `mapstructure:"sanitize"`
	OTP        OTPSettings        `mapstructure:"otp"`
	CSRF       CSRFSettings       `mapstructure:"csrf"`
	Batch      BatchSettings      `mapstructure:"batch"`
}

type AppSettings struct {
	Name string `mapstructure:"name" validate:"required"`
}

type InstrumentSettings struct {
	Enabled               bool     `mapstructure:"enabled"`
	ServiceName           string   `mapstructure:"service_name" validate:"required"`
	ServiceVersion        string   `mapstructure:"service_version"`
	Env                   string   `mapstructure:"env"`
	OTLPEndpoint          string   `mapstructure:"otlp_endpoint" validate:"required_if=Enabled true"`
	OTLPSecure            bool     `mapstructure:"otlp_secure"`
	TraceSampleRatio      float64  `mapstructure:"trace_sample_ratio" validate:"min=0,max=1"`
	MetricIntervalSeconds int      `mapstructure:"metric_interval_seconds" validate:"min=1"`
	LogLevel              string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat             string   `mapstructure:"log_format" validate:"oneof=json text"`
	LogMaskFields         []string `mapstructure:"log_mask_fields"`
}

type HashSettings struct {
	SaltLength int    `mapstructure:"salt_length" validate:"min=1"`
	KeyLength  int    `mapstructure:"key_length" validate:"min=1"`
	Iterations int    `mapstructure:"iterations" validate:"min=1"`
	Algorithm  string `mapstructure:"algorithm" validate:"oneof=SHA1 SHA256 SHA384 SHA512"`
}

type PolicySettings struct {
	MinLength         int    `mapstructure:"min_length" validate:"min=1"`
	RequireDigit      bool   `mapstructure:"require_digit"`
	RequireLetter     bool   `mapstructure:"require_letter"`
	RequireSpecial    bool   `mapstructure:"require_special"`
	AllowedPattern    string `mapstructure:"allowed_pattern" validate:"omitempty,regexp"`
	DisallowedPattern string `mapstructure:"disallowed_pattern" validate:"omitempty,regexp"`
}

type SanitizeSettings struct {
	MaxLength int `mapstructure:"max_length" validate:"min=1"`
}

type OTPSettings struct {
	CodeLength int          `mapstructure:"code_length" validate:"min=1"`
	TOTP       TOTPSettings `mapstructure:"totp"`
}

type TOTPSettings struct {
	Issuer string `mapstructure:"issuer" validate:"required"`
	Period uint   `mapstructure:"period"`
	Skew   uint   `mapstructure:"skew"`
	Digits int    `mapstructure:"digits" validate:"oneof=6 8"`
}

type CSRFSettings struct {
	Size   int    `mapstructure:"size" validate:"min=1"`
	Secret string `mapstructure:"secret"`
}

type BatchSettings struct {
	MaxGoroutine int `mapstructure:"max_goroutine" validate:"min=1"`
}

// defaults returns every known key, so environment overrides reach Unmarshal
// even when no file sets the key.
func defaults() map[string]any {
	hc := hash.DefaultConfig()
	pc := passpolicy.DefaultConfig()

	return map[string]any{
		"app.name": "sectools",

		"instrument.enabled":                 false,
		"instrument.service_name":            "sectools",
		"instrument.service_version":         "dev",
		"instrument.env":                     "local",
		"instrument.otlp_endpoint":           "",
		"instrument.otlp_secure":             false,
		"instrument.trace_sample_ratio":      1.0,
		"instrument.metric_interval_seconds": 60,
		"instrument.log_level":               "info",
		"instrument.log_format":              "json",
		"instrument.log_mask_fields":         strings.Join(instrument.DefaultMaskFields, ","),

		"hash.salt_length": hc.SaltLength,
		"hash.key_length":  hc.KeyLength,
		"hash.iterations":  hc.Iterations,
		"hash.algorithm":   string(hc.Algorithm),

		"policy.min_length":         pc.MinLength,
		"policy.require_digit":      pc.RequireDigit,
		"policy.require_letter":     pc.RequireLetter,
		"policy.require_special":    pc.RequireSpecial,
		"policy.allowed_pattern":    "",
		"policy.disallowed_pattern": "",

		"sanitize.max_length": 256,

		"otp.code_length": otp.DefaultCodeLength,
		"otp.totp.issuer": "sectools",
		"otp.totp.period": 30,
		"otp.totp.skew":   1,
		"otp.totp.digits": 6,

		"csrf.size":   token.DefaultSize,
		"csrf.secret": "",

		"batch.max_goroutine": 4,
	}
}
