package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/mailguard/internal/core"
)

// Exit codes
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitRemote     = 3
	exitTransport  = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var validationErr *core.ValidationError
	var apiErr *core.APIError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &validationErr):
		return exitValidation
	case errors.As(err, &apiErr):
		return exitRemote
	case errors.Is(err, core.ErrTransport):
		return exitTransport
	default:
		return exitFailure
	}
}
