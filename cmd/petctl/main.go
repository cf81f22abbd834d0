// Command petctl is the terminal front end of the pet adoption client
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/petadoption/webclient/internal/app"
	"github.com/petadoption/webclient/internal/config"
	"github.com/petadoption/webclient/internal/logger"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	global := flag.NewFlagSet("petctl", flag.ContinueOnError)
	output := global.String("o", "", "output format: table, json or yaml (default from OUTPUT_FORMAT)")
	global.Usage = func() { printUsage(os.Stderr) }
	if err := global.Parse(os.Args[1:]); err != nil {
		return exitUsage
	}
	if global.NArg() == 0 {
		printUsage(os.Stderr)
		return exitUsage
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}
	if *output != "" {
		if err := config.ValidateOutputFormat(*output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		cfg.Output.Format = *output
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Logger.Error("Failed to initialize client", zap.Error(err))
		return exitFailure
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	c := newCLI(a, os.Stdin, os.Stdout, os.Stderr)
	if err := c.run(ctx, global.Args()); err != nil {
		switch {
		case errors.Is(err, errReported):
		case errors.Is(err, errUsage):
			printUsage(os.Stderr)
			return exitUsage
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitFailure
	}
	return exitOK
}
