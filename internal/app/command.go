package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/shandysiswandi/sectools/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// errRejected marks a command that ran correctly but whose answer is
// negative: a mismatch, an unacceptable password or an invalid token.
var errRejected = errors.New("rejected")

type command struct {
	summary string
	run     func(a *App, ctx context.Context, fs *flag.FlagSet, args []string) error
}

var commands = map[string]command{
	"hash":        {"hash the password read from stdin", (*App).hash},
	"verify":      {"verify the password read from stdin against -record", (*App).verify},
	"check":       {"check the password read from stdin against the policy", (*App).check},
	"hash-batch":  {"hash one password per stdin line concurrently", (*App).hashBatch},
	"sanitize":    {"sanitize stdin text for a single-quoted SQL literal", (*App).sanitize},
	"tfa":         {"generate a numeric two-factor code", (*App).tfa},
	"csrf":        {"generate an anti-CSRF token", (*App).csrfGenerate},
	"csrf-verify": {"verify a signed anti-CSRF token given by -token", (*App).csrfVerify},
	"totp-enroll": {"create a TOTP secret and URI for -account", (*App).totpEnroll},
	"totp-check":  {"check -code against the TOTP secret read from stdin", (*App).totpCheck},
	"config":      {"print the effective values of -keys", (*App).configValues},
}

func commandNames() []string {
	names := lo.Keys(commands)
	slices.Sort(names)
	return names
}

func (a *App) execute(ctx context.Context, name string, cmd command, args []string) int {
	ctx, span := a.tracer.Start(ctx, tracerName+"."+name)
	defer span.End()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	err := cmd.run(a, ctx, fs, args)
	code := exitCode(err)
	outcome := outcomeOf(code)

	a.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	))
	span.SetAttributes(attribute.String("outcome", outcome))

	switch {
	case err == nil:
		slog.DebugContext(ctx, "command finished", "command", name)
	case errors.Is(err, errRejected):
		slog.InfoContext(ctx, "command rejected input", "command", name)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "command failed", "command", name, "code", goerror.CodeOf(err).String(), "error", err)
	}

	return code
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, errRejected) {
		return ExitFailed
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if isUsageError(err) {
		return ExitInvalid
	}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		return ExitConfig
	}

	switch goerror.CodeOf(err) {
	case goerror.CodeInvalidArgument, goerror.CodeLengthExceeded, goerror.CodeInvalidFormat:
		return ExitInvalid
	case goerror.CodeInvalidConfiguration:
		return ExitConfig
	default:
		return ExitFailed
	}
}

func outcomeOf(code int) string {
	switch code {
	case ExitOK:
		return "ok"
	case ExitFailed:
		return "rejected"
	case ExitInvalid:
		return "invalid"
	default:
		return "error"
	}
}

// usageError wraps a flag parsing failure.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

// parse parses command flags and rejects positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err: err}
	}
	if fs.NArg() > 0 {
		return usageError{err: fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))}
	}

	return nil
}

// readLine returns the first line of r without its line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", goerror.NewServer(err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// readAll returns all of r with one trailing line terminator removed.
func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", goerror.NewServer(err)
	}

	s := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func (a *App) writeLine(s string) {
	fmt.Fprintln(a.stdout, s)
}
