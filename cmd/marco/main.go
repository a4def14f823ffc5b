// Command marco generates getters, setters, withers and builders for Go
// struct types.
//
// Usage:
//
//	marco generate [file] [--type T] [--gen Getter,Setter,Wither,Builder] [--output dir]
//	marco compose <file>... [--dry-run]
//	marco watch [dir] [--once]
//
// Global flags:
//
//	--log-level   Log level (debug, info, warn, error, disabled)
//	--log-json    Write logs as JSON
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/marco/internal/cli"
	"github.com/syssam/marco/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.RootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.GetDefault().Error("marco failed", "error", err)
		os.Exit(1)
	}
}
