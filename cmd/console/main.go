package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/story-graph/internal/config"
	"github.com/jwebster45206/story-graph/internal/logger"
	"github.com/jwebster45206/story-graph/internal/storage"
)

const debugLogFile = "console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The UI owns the terminal, so logs only go to a file in debug mode.
	var logOut io.Writer = io.Discard
	if cfg.LogLevel == slog.LevelDebug {
		f, err := tea.LogToFile(debugLogFile, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logOut = f
	}
	sessionID := uuid.New()
	log := logger.WithSessionID(logger.SetupWriter(cfg, logOut), sessionID)

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.StoryTTL, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = store.WaitForConnection(ctx, 5, 500*time.Millisecond)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to Redis at %s. Please ensure it is running.\nTry: docker-compose up -d redis\n", cfg.RedisURL)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(store, cfg.Limits(), log, sessionID),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if ui, ok := final.(ConsoleUI); ok {
		ui.story.Release()
	}
}
