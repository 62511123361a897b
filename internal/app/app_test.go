package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/shandysiswandi/sectools/internal/pkg/hash"
	"github.com/shandysiswandi/sectools/internal/pkg/otp"
	"github.com/shandysiswandi/sectools/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func (r result) lines() []string {
	return strings.Split(strings.TrimSuffix(r.stdout, "\n"), "\n")
}

// setup isolates the process environment and keeps hashing cheap.
func setup(t *testing.T) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("SECTOOLS_CONFIG", "")
	t.Setenv("SECTOOLS_HASH_ITERATIONS", "1000")
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := New(strings.NewReader(stdin), &stdout, &stderr).Run(context.Background(), args)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "sectools.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRun_HashAndVerify(t *testing.T) {
	setup(t)

	res := run(t, "GoodPass1\n", "hash")
	require.Equal(t, ExitOK, res.code, res.stderr)

	record := strings.TrimSpace(res.stdout)
	assert.True(t, strings.HasSuffix(record, ":1000:SHA512"), record)

	res = run(t, "GoodPass1\n", "verify", "-record", record)
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "match\n", res.stdout)

	res = run(t, "WrongPass1", "verify", "-record", record)
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, "mismatch\n", res.stdout)
	assert.NotContains(t, res.stderr, record)
}

func TestRun_HashErrors(t *testing.T) {
	setup(t)

	assert.Equal(t, ExitInvalid, run(t, "\n", "hash").code)
	assert.Equal(t, ExitInvalid, run(t, "pw", "verify", "-record", "not-a-valid-record").code)
	assert.Equal(t, ExitInvalid, run(t, "password", "verify", "-record",
		"0C60C80F961F0E71F3A9B524AF6012062FE037A6:73616C74:+1:SHA1").code)
	assert.Equal(t, ExitInvalid, run(t, "pw", "verify").code)
	assert.Equal(t, ExitInvalid, run(t, "pw", "hash", "extra").code)
}

func TestRun_Check(t *testing.T) {
	setup(t)

	res := run(t, "GoodPass1\n", "check")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "acceptable\n", res.stdout)

	res = run(t, "2short\n", "check")
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, []string{"too_short"}, res.lines())

	res = run(t, "noNumberTest\n", "check")
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, []string{"digit_required"}, res.lines())
}

func TestRun_CheckWithConfiguredPolicy(t *testing.T) {
	setup(t)

	path := writeConfig(t, `
policy:
  min_length: 8
  require_special: true
  allowed_pattern: '.*\$.*'
  disallowed_pattern: '[^a-zA-Z0-9$]'
`)

	res := run(t, "pa$$wor8", "-config", path, "check")
	assert.Equal(t, ExitOK, res.code, res.stderr)

	res = run(t, "passwor8", "-config", path, "check")
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, []string{"special_required"}, res.lines())
}

func TestRun_ConfigErrors(t *testing.T) {
	setup(t)

	t.Run("contradictory policy", func(t *testing.T) {
		path := writeConfig(t, "policy:\n  allowed_pattern: 'x'\n")
		assert.Equal(t, ExitConfig, run(t, "pw", "-config", path, "check").code)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		path := writeConfig(t, "policy:\n  disallowed_pattern: '[oops'\n")
		res := run(t, "pw", "-config", path, "check")
		assert.Equal(t, ExitConfig, res.code)
		assert.Contains(t, res.stderr, "policy.disallowed_pattern")
	})

	t.Run("env override out of range", func(t *testing.T) {
		t.Setenv("SECTOOLS_HASH_ITERATIONS", "0")
		assert.Equal(t, ExitConfig, run(t, "pw", "hash").code)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, ExitConfig, run(t, "pw", "-config", filepath.Join(t.TempDir(), "none.yaml"), "hash").code)
	})

	t.Run("config from env var", func(t *testing.T) {
		t.Setenv("SECTOOLS_CONFIG", writeConfig(t, "sanitize:\n  max_length: 0\n"))
		assert.Equal(t, ExitConfig, run(t, "abc", "sanitize").code)
	})
}

func TestRun_Sanitize(t *testing.T) {
	setup(t)

	res := run(t, "asdf$ASDF%1234'\n", "sanitize")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "asdfASDF1234''\n", res.stdout)

	res = run(t, "asdf$A'SDF%1234'", "sanitize")
	assert.Equal(t, "asdfA''SDF1234''\n", res.stdout)

	assert.Equal(t, ExitInvalid, run(t, "asdf", "sanitize", "-max", "1").code)
	assert.Equal(t, ExitInvalid, run(t, "!@#$", "sanitize").code)
	assert.Equal(t, ExitInvalid, run(t, "asdf", "sanitize", "-max", "nope").code)
}

func TestRun_HashBatch(t *testing.T) {
	setup(t)
	t.Setenv("SECTOOLS_BATCH_MAX_GOROUTINE", "2")

	passwords := []string{"first-pass-1", "second-pass-2", "third-pass-3", "fourth-pass-4", "fifth-pass-5"}
	res := run(t, strings.Join(passwords, "\n")+"\n", "hash-batch")
	require.Equal(t, ExitOK, res.code, res.stderr)

	records := res.lines()
	require.Len(t, records, len(passwords))

	verifier, err := hash.NewPBKDF2(hash.DefaultConfig())
	require.NoError(t, err)
	for i, pw := range passwords {
		ok, err := verifier.Verify(pw, records[i])
		require.NoError(t, err)
		assert.True(t, ok, "record %d does not belong to line %d", i, i)
	}
}

func TestRun_HashBatchBlankLine(t *testing.T) {
	setup(t)

	res := run(t, "one-pass-1\n\nthree-pass-3\n", "hash-batch")
	assert.Equal(t, ExitInvalid, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "line 2")

	assert.Equal(t, ExitInvalid, run(t, "", "hash-batch").code)
}

func TestRun_TFA(t *testing.T) {
	setup(t)

	res := run(t, "", "tfa")
	assert.Equal(t, ExitOK, res.code)
	assert.Regexp(t, `^[0-9]{6}\n$`, res.stdout)

	res = run(t, "", "tfa", "-length", "10")
	assert.Regexp(t, `^[0-9]{10}\n$`, res.stdout)

	assert.Equal(t, ExitInvalid, run(t, "", "tfa", "-length", "-3").code)
}

func TestRun_CSRF(t *testing.T) {
	setup(t)

	res := run(t, "", "csrf")
	assert.Equal(t, ExitOK, res.code)
	assert.Len(t, strings.TrimSpace(res.stdout), 43)

	assert.Equal(t, ExitConfig, run(t, "", "csrf-verify", "-token", "a.b").code)

	t.Setenv("SECTOOLS_CSRF_SECRET", "s3cr3t")
	res = run(t, "", "csrf")
	require.Equal(t, ExitOK, res.code)
	tok := strings.TrimSpace(res.stdout)

	res = run(t, "", "csrf-verify", "-token", tok)
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "valid\n", res.stdout)

	t.Setenv("SECTOOLS_CSRF_SECRET", "other")
	res = run(t, "", "csrf-verify", "-token", tok)
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, "invalid\n", res.stdout)

	assert.Equal(t, ExitInvalid, run(t, "", "csrf-verify", "-token", "unsigned").code)
}

func TestRun_TOTP(t *testing.T) {
	setup(t)

	res := run(t, "", "totp-enroll", "-account", "alice@example.com")
	require.Equal(t, ExitOK, res.code, res.stderr)

	lines := res.lines()
	require.Len(t, lines, 2)
	secret := strings.TrimPrefix(lines[0], "secret=")
	assert.True(t, strings.HasPrefix(lines[1], "uri=otpauth://totp/"))

	gen, err := otp.NewTOTP(otp.TOTPConfig{Issuer: "sectools"}, nil)
	require.NoError(t, err)
	code, err := gen.GenerateCode(secret)
	require.NoError(t, err)

	res = run(t, secret+"\n", "totp-check", "-code", code)
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "valid\n", res.stdout)

	res = run(t, secret+"\n", "totp-check", "-code", "00000a")
	assert.Equal(t, ExitFailed, res.code)
	assert.Equal(t, "invalid\n", res.stdout)

	res = run(t, "!!!not-base32!!!\n", "totp-check", "-code", "123456")
	assert.Equal(t, ExitInvalid, res.code)
	assert.Empty(t, res.stdout)

	assert.Equal(t, ExitInvalid, run(t, secret+"\n", "totp-check", "-code", "1234").code)

	assert.Equal(t, ExitInvalid, run(t, "", "totp-enroll").code)
	assert.Equal(t, ExitInvalid, run(t, secret, "totp-check").code)
	assert.Equal(t, ExitInvalid, run(t, "", "totp-check", "-code", code).code)
}

func TestRun_Config(t *testing.T) {
	setup(t)
	path := writeConfig(t, "app:\n  name: vault\n")

	res := run(t, "", "-config", path, "config", "-keys", "app.name, hash.iterations,app.name,missing.key")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, []string{"app.name=vault", "hash.iterations=1000", "missing.key="}, res.lines())

	assert.Equal(t, ExitInvalid, run(t, "", "config").code)
}

func TestRun_Usage(t *testing.T) {
	setup(t)

	res := run(t, "")
	assert.Equal(t, ExitInvalid, res.code)
	assert.Contains(t, res.stderr, "usage: sectools")
	assert.Contains(t, res.stderr, "hash-batch")

	res = run(t, "", "explode")
	assert.Equal(t, ExitInvalid, res.code)
	assert.Contains(t, res.stderr, `unknown command "explode"`)

	assert.Equal(t, ExitOK, run(t, "", "-h").code)
	assert.Equal(t, ExitOK, run(t, "", "hash", "-h").code)
	assert.Equal(t, ExitInvalid, run(t, "", "-bogus", "hash").code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"rejected", errRejected, ExitFailed},
		{"help", flag.ErrHelp, ExitOK},
		{"usage", usageError{err: errors.New("bad flag")}, ExitInvalid},
		{"invalid argument", goerror.NewInvalidArgument("x"), ExitInvalid},
		{"length", goerror.NewLengthExceeded(1), ExitInvalid},
		{"format", goerror.NewInvalidFormat(nil, "x"), ExitInvalid},
		{"configuration", goerror.NewInvalidConfiguration("x"), ExitConfig},
		{"validation", validator.V10ValidationError{"a": "b"}, ExitConfig},
		{"internal", goerror.NewServer(errors.New("x")), ExitFailed},
		{"foreign", errors.New("x"), ExitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestCommandNames_Sorted(t *testing.T) {
	names := commandNames()
	assert.Len(t, names, len(commands))
	assert.IsNonDecreasing(t, names)
}
