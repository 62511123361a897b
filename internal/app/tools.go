package app

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/shandysiswandi/sectools/internal/pkg/otp"
	"github.com/shandysiswandi/sectools/internal/pkg/sanitize"
)

func (a *App) sanitize(_ context.Context, fs *flag.FlagSet, args []string) error {
	maxLength := fs.Int("max", a.settings.Sanitize.MaxLength, "maximum input length in characters")
	if err := parse(fs, args); err != nil {
		return err
	}

	input, err := readAll(a.stdin)
	if err != nil {
		return err
	}

	literal, err := sanitize.SQLLiteral(input, *maxLength)
	if err != nil {
		return err
	}

	a.writeLine(literal)
	return nil
}

func (a *App) tfa(_ context.Context, fs *flag.FlagSet, args []string) error {
	length := fs.Int("length", 0, "code length (default from otp.code_length)")
	if err := parse(fs, args); err != nil {
		return err
	}

	codes := a.codes
	if *length != 0 {
		if *length < 1 {
			return goerror.NewInvalidArgument("code length must be 1 or greater")
		}

		var err error
		if codes, err = otp.NewCodeGenerator(*length); err != nil {
			return err
		}
	}

	code, err := codes.Generate()
	if err != nil {
		return err
	}

	a.writeLine(code)
	return nil
}

func (a *App) csrfGenerate(_ context.Context, fs *flag.FlagSet, args []string) error {
	if err := parse(fs, args); err != nil {
		return err
	}

	tok, err := a.csrf.Generate()
	if err != nil {
		return err
	}

	a.writeLine(tok)
	return nil
}

func (a *App) csrfVerify(_ context.Context, fs *flag.FlagSet, args []string) error {
	tok := fs.String("token", "", "signed token to verify")
	if err := parse(fs, args); err != nil {
		return err
	}

	valid, err := a.csrf.Verify(*tok)
	if err != nil {
		return err
	}

	return a.writeVerdict(valid)
}

func (a *App) totpEnroll(_ context.Context, fs *flag.FlagSet, args []string) error {
	account := fs.String("account", "", "account name shown in the authenticator app")
	if err := parse(fs, args); err != nil {
		return err
	}

	key, err := a.totp.Enroll(*account)
	if err != nil {
		return err
	}

	a.writeLine("secret=" + key.Secret)
	a.writeLine("uri=" + key.URI)
	return nil
}

func (a *App) totpCheck(_ context.Context, fs *flag.FlagSet, args []string) error {
	code := fs.String("code", "", "code shown by the authenticator app")
	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*code) == "" {
		return goerror.NewInvalidArgument("code must not be empty")
	}

	secret, err := readLine(a.stdin)
	if err != nil {
		return err
	}
	if strings.TrimSpace(secret) == "" {
		return goerror.NewInvalidArgument("secret must not be empty")
	}

	ok, err := a.totp.Validate(*code, secret)
	if err != nil {
		return err
	}

	return a.writeVerdict(ok)
}

func (a *App) configValues(_ context.Context, fs *flag.FlagSet, args []string) error {
	keys := fs.String("keys", "", "comma separated config keys")
	if err := parse(fs, args); err != nil {
		return err
	}

	names := lo.Uniq(lo.Compact(lo.Map(strings.Split(*keys, ","), func(k string, _ int) string {
		return strings.TrimSpace(k)
	})))
	if len(names) == 0 {
		return goerror.NewInvalidArgument("at least one key is required")
	}

	values := a.config.Values(names...)
	for _, name := range names {
		a.writeLine(fmt.Sprintf("%s=%s", name, values[name]))
	}

	return nil
}

func (a *App) writeVerdict(valid bool) error {
	if !valid {
		a.writeLine("invalid")
		return errRejected
	}

	a.writeLine("valid")
	return nil
}
