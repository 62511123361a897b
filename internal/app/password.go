package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/shandysiswandi/sectools/internal/pkg/goroutine"
)

func (a *App) hash(_ context.Context, fs *flag.FlagSet, args []string) error {
	if err := parse(fs, args); err != nil {
		return err
	}

	password, err := readLine(a.stdin)
	if err != nil {
		return err
	}

	record, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}

	a.writeLine(record)
	return nil
}

func (a *App) verify(ctx context.Context, fs *flag.FlagSet, args []string) error {
	record := fs.String("record", "", "hash record to verify against")
	if err := parse(fs, args); err != nil {
		return err
	}

	password, err := readLine(a.stdin)
	if err != nil {
		return err
	}

	ok, err := a.hasher.Verify(password, *record)
	if err != nil {
		return err
	}

	if !ok {
		slog.InfoContext(ctx, "password does not match", "record", *record)
		a.writeLine("mismatch")
		return errRejected
	}

	a.writeLine("match")
	return nil
}

func (a *App) check(_ context.Context, fs *flag.FlagSet, args []string) error {
	if err := parse(fs, args); err != nil {
		return err
	}

	password, err := readLine(a.stdin)
	if err != nil {
		return err
	}

	violations := a.policy.Violations(password)
	if len(violations) > 0 {
		a.writeLine(strings.Join(violations, "\n"))
		return errRejected
	}

	a.writeLine("acceptable")
	return nil
}

// hashBatch hashes every stdin line concurrently and prints the records in
// input order. Output is all or nothing: any failing line fails the batch.
func (a *App) hashBatch(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if err := parse(fs, args); err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return goerror.NewServer(err)
	}
	if len(lines) == 0 {
		return goerror.NewInvalidArgument("no passwords on input")
	}

	records := make([]string, len(lines))
	manager := goroutine.NewManager(a.settings.Batch.MaxGoroutine)

	for i, line := range lines {
		err := manager.Go(ctx, func(context.Context) error {
			record, err := a.hasher.Hash(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			records[i] = record
			return nil
		})
		if err != nil {
			break
		}
	}

	if err := manager.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return goerror.NewServer(err)
	}

	for _, record := range records {
		a.writeLine(record)
	}

	slog.InfoContext(ctx, "batch hashed", "count", len(records), "max_goroutine", manager.Limit())
	return nil
}
