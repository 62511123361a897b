package app

import (
	"context"
	"time"

	"github.com/shandysiswandi/sectools/internal/pkg/clock"
	"github.com/shandysiswandi/sectools/internal/pkg/config"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/shandysiswandi/sectools/internal/pkg/hash"
	"github.com/shandysiswandi/sectools/internal/pkg/instrument"
	"github.com/shandysiswandi/sectools/internal/pkg/otp"
	"github.com/shandysiswandi/sectools/internal/pkg/passpolicy"
	"github.com/shandysiswandi/sectools/internal/pkg/token"
	"github.com/shandysiswandi/sectools/internal/pkg/validator"
)

func (a *App) initConfig(path string) error {
	cfg, err := config.NewViper(path,
		config.WithDefaults(defaults()),
		config.WithEnvPrefix(envPrefix),
	)
	if err != nil {
		return err
	}

	a.config = cfg
	a.closers = append(a.closers, closer{name: "config", fn: func(context.Context) error { return cfg.Close() }})

	return nil
}

func (a *App) initSettings() error {
	v, err := validator.NewV10Validator()
	if err != nil {
		return goerror.NewServer(err)
	}
	a.validator = v

	var s Settings
	if err := a.config.Unmarshal(&s); err != nil {
		return err
	}
	if err := a.validator.Validate(s); err != nil {
		return goerror.WrapInvalidConfiguration(err, "invalid settings: "+err.Error())
	}

	a.settings = s

	return nil
}

func (a *App) initInstrument(ctx context.Context) error {
	s := a.settings.Instrument

	ins, err := instrument.New(ctx, &instrument.Config{
		Enabled:          s.Enabled,
		ServiceName:      s.ServiceName,
		ServiceVersion:   s.ServiceVersion,
		Environment:      s.Env,
		OTLPEndpoint:     s.OTLPEndpoint,
		OTLPSecure:       s.OTLPSecure,
		TraceSampleRatio: s.TraceSampleRatio,
		MetricsInterval:  time.Duration(s.MetricIntervalSeconds) * time.Second,
		LogLevel:         s.LogLevel,
		LogFormat:        s.LogFormat,
		LogWriter:        a.stderr,
		MaskFields:       s.LogMaskFields,
	})
	if err != nil {
		return goerror.WrapInvalidConfiguration(err, "failed to init instrumentation")
	}
	a.ins = ins
	a.closers = append(a.closers, closer{name: "instrument", fn: ins.Shutdown})

	a.tracer = ins.Tracer(tracerName)
	ops, err := ins.Meter(tracerName).Int64Counter("sectools.operations")
	if err != nil {
		return goerror.NewServer(err)
	}
	a.operations = ops

	return nil
}

func (a *App) initLibraries() error {
	s := a.settings

	a.clock = clock.New()

	hasher, err := hash.NewPBKDF2(hash.Config{
		SaltLength: s.Hash.SaltLength,
		KeyLength:  s.Hash.KeyLength,
		Iterations: s.Hash.Iterations,
		Algorithm:  hash.Algorithm(s.Hash.Algorithm),
	})
	if err != nil {
		return err
	}
	a.hasher = hasher

	policy, err := newPolicy(s.Policy)
	if err != nil {
		return goerror.WrapInvalidConfiguration(err, "invalid password policy: "+err.Error())
	}
	a.policy = policy

	codes, err := otp.NewCodeGenerator(s.OTP.CodeLength)
	if err != nil {
		return goerror.WrapInvalidConfiguration(err, "invalid otp code length")
	}
	a.codes = codes

	totp, err := otp.NewTOTP(otp.TOTPConfig{
		Issuer: s.OTP.TOTP.Issuer,
		Period: s.OTP.TOTP.Period,
		Skew:   s.OTP.TOTP.Skew,
		Digits: s.OTP.TOTP.Digits,
	}, a.clock)
	if err != nil {
		return err
	}
	a.totp = totp

	csrf, err := token.NewCSRF(s.CSRF.Size, s.CSRF.Secret)
	if err != nil {
		return err
	}
	a.csrf = csrf

	return nil
}

func newPolicy(s PolicySettings) (*passpolicy.Policy, error) {
	cfg := passpolicy.Config{
		MinLength:      s.MinLength,
		RequireDigit:   s.RequireDigit,
		RequireLetter:  s.RequireLetter,
		RequireSpecial: s.RequireSpecial,
	}

	if s.AllowedPattern != "" {
		m, err := passpolicy.Compile(s.AllowedPattern)
		if err != nil {
			return nil, err
		}
		cfg.Allowed = m
	}

	if s.DisallowedPattern != "" {
		m, err := passpolicy.Compile(s.DisallowedPattern)
		if err != nil {
			return nil, err
		}
		cfg.Disallowed = m
	}

	return passpolicy.New(cfg)
}
