package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shandysiswandi/sectools/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	application := app.New(os.Stdin, os.Stdout, os.Stderr) // Initialize the application
	code := application.Run(ctx, os.Args[1:])              // Run the selected command

	stop()
	os.Exit(code)
}
