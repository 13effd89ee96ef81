package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
)

func main() {
	dumpConfig := flag.Bool("dump-config", false, "print the effective settings as TOML and exit")
	flag.Parse()

	if err := run(*dumpConfig); err != nil {
		fmt.Fprintf(os.Stderr, "invaders: %v\n", err)
		os.Exit(1)
	}
}

func run(dumpConfig bool) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	settings, err := config.Load(config.GetEnv("INVADERS_CONFIG", ""))
	if err != nil {
		return err
	}
	if dumpConfig {
		return settings.Write(os.Stdout)
	}

	// stdout is the game screen, so logs go to a file or nowhere
	logOut, closeLog, err := config.OpenLogFile(config.GetEnv("INVADERS_LOG", ""))
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := config.NewLogger(logOut, config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting local game", "fps", settings.Timing.FPS)
	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(ctx, reader, os.Stdout, loop.Options{
		Settings: settings,
		Logger:   logger,
	}); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
