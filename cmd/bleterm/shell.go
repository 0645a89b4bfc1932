package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srg/bleterm/internal/radio/goble"
	"github.com/srg/bleterm/internal/session"
	"github.com/srg/bleterm/pkg/config"
)

func runShell(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := configureLogger(cmd, cfg)
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	central, err := goble.NewCentral(logger, cfg.EventBuffer)
	if err != nil {
		return err
	}

	display := newTerminalDisplay(os.Stdout)
	sess := session.New(central, display, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	// Hardware events mutate the session from this pump; user input mutates
	// it from the loop below. The session serializes both internally.
	go sess.Run(ctx)

	editor := NewLineEditor(historyPath(cfg))
	defer func() { _ = editor.Close() }()

	for {
		line, err := editor.GetLine(sess.Prompt())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		sess.HandleLine(line)
	}
}

// historyPath resolves the configured history file against the home
// directory unless it is already absolute.
func historyPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.HistoryFile) {
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg.HistoryFile
	}
	return filepath.Join(home, cfg.HistoryFile)
}
