package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/musilife/internal/config"
	"github.com/jwebster45206/musilife/internal/logger"
	"github.com/jwebster45206/musilife/internal/storage"
	"github.com/jwebster45206/musilife/pkg/engine"
	"github.com/jwebster45206/musilife/pkg/rng"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Log to a file; stdout belongs to the TUI.
	logPath := filepath.Join(os.TempDir(), "musilife-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.New(cfg, logFile)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	content, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open content source: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = content.Close()
	}()

	sink := &snapshotSink{}
	session, err := engine.NewSession(ctx, content,
		engine.WithRandom(rng.New(cfg.Seed)),
		engine.WithRenderer(sink),
		engine.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load game content: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(session, sink), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
