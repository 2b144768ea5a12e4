package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-graph/internal/config"
	"github.com/jwebster45206/story-graph/internal/logger"
	"github.com/jwebster45206/story-graph/pkg/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.WithSessionID(logger.Setup(cfg), uuid.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, log, os.Stdin, os.Stdout))
}

// run parses a story from in, plays the remaining input against it and
// writes the final state token to out. It returns the process exit code.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, in io.Reader, out io.Writer) int {
	br := bufio.NewReader(in)

	st, err := story.Parse(br, story.WithLimits(cfg.Limits()), story.WithLogger(log))
	if err != nil {
		logger.WithError(log, err).Debug("Story construction failed")
		return 1
	}
	defer st.Release()

	log.Debug("Story loaded", "nodes", st.Len(), "start_state", st.State().String())

	state, err := story.Play(ctx, st, br)
	if err != nil {
		logger.WithError(log, err).Warn("Session ended early")
		state = st.Exhaust()
	}

	log.Debug("Session finished", "state", state.String(), "turns", len(st.Path())-1)
	if _, err := fmt.Fprintln(out, state.String()); err != nil {
		logger.WithError(log, err).Error("Failed to write result")
		return 1
	}
	return 0
}
