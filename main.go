package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	app "github.com/rocketscienceinc/tictactoe/internal"
	"github.com/rocketscienceinc/tictactoe/internal/config"
)

var (
	configPath = "config.yml"
	logFile    = ""
	inTerminal = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "path to the config file")
	pflag.BoolVarP(&inTerminal, "terminal", "t", inTerminal, "play in the terminal instead of serving")
	pflag.StringVar(&logFile, "log-file", logFile, "write logs to this file, stdout is used when empty")
}

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	pflag.Parse()

	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath)

	out, closeOut := initLogOutput()
	defer closeOut()

	logger := initLogger(conf, out)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	run := app.RunApp
	if inTerminal {
		run = app.RunTerminal
	}

	if err := run(ctx, logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize log output. The terminal owns stdout, so it logs nowhere unless a file is given.
func initLogOutput() (io.Writer, func()) {
	if logFile == "" {
		if inTerminal {
			return io.Discard, func() {}
		}
		return os.Stdout, func() {}
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(fmt.Errorf("failed to open log file: %w", err))
	}

	return file, func() { _ = file.Close() }
}

// initialize logger.
func initLogger(conf *config.Config, out io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
