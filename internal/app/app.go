package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shandysiswandi/sectools/internal/pkg/clock"
	"github.com/shandysiswandi/sectools/internal/pkg/config"
	"github.com/shandysiswandi/sectools/internal/pkg/hash"
	"github.com/shandysiswandi/sectools/internal/pkg/instrument"
	"github.com/shandysiswandi/sectools/internal/pkg/otp"
	"github.com/shandysiswandi/sectools/internal/pkg/passpolicy"
	"github.com/shandysiswandi/sectools/internal/pkg/token"
	"github.com/shandysiswandi/sectools/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "sectools"

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitInvalid = 2
	ExitConfig  = 3
)

type closer struct {
	name string
	fn   func(context.Context) error
}

// App wires dependencies and runs one CLI command.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// configuration
	config   config.Config
	settings Settings
	ins      instrument.Instrumentation

	tracer     trace.Tracer
	operations metric.Int64Counter

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	hasher    hash.Hasher
	policy    *passpolicy.Policy
	codes     *otp.CodeGenerator
	totp      otp.OTP
	csrf      *token.CSRF

	closers []closer
}

// New returns an App reading from stdin and writing results to stdout. Logs
// and usage go to stderr.
func New(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run parses args (without the program name), initializes dependencies and
// executes the selected command. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("sectools", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", os.Getenv("SECTOOLS_CONFIG"), "path to a config file")
	fs.Usage = func() { a.usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitInvalid
	}

	if fs.NArg() == 0 {
		a.usage(fs)
		return ExitInvalid
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", name)
		a.usage(fs)
		return ExitInvalid
	}

	if err := a.init(ctx, *configPath); err != nil {
		fmt.Fprintf(a.stderr, "sectools: %v\n", err)
		a.Stop(ctx)
		return exitCode(err)
	}
	defer a.Stop(ctx)

	return a.execute(ctx, name, cmd, fs.Args()[1:])
}

func (a *App) init(ctx context.Context, configPath string) error {
	if err := a.initConfig(configPath); err != nil {
		return err
	}
	if err := a.initSettings(); err != nil {
		return err
	}
	if err := a.initInstrument(ctx); err != nil {
		return err
	}

	return a.initLibraries()
}

// Stop flushes telemetry and releases resources.
func (a *App) Stop(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}
	a.closers = nil
}

func (a *App) usage(fs *flag.FlagSet) {
	fmt.Fprintf(a.stderr, "usage: sectools [-config path] <command> [flags]\n\nflags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(a.stderr, "\ncommands:\n")
	for _, name := range commandNames() {
		fmt.Fprintf(a.stderr, "  %-12s %s\n", name, commands[name].summary)
	}
}
