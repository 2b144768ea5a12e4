package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/story-graph/internal/config"
	"github.com/jwebster45206/story-graph/internal/logger"
	"github.com/jwebster45206/story-graph/internal/storage"
)

func main() {
	var (
		asYAML  = flag.Bool("yaml", false, "print the story outline as YAML")
		watch   = flag.Bool("watch", false, "validate again every time the file is written")
		publish = flag.Bool("publish", false, "save the story into storage when it is valid")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-yaml] [-watch] [-publish] <story.txt>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	validator := &StoryValidator{
		limits: cfg.Limits(),
		logger: log,
		out:    os.Stdout,
		yaml:   *asYAML,
	}

	if *publish {
		store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.StoryTTL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create storage: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = store.Close()
		}()
		validator.store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filename := flag.Arg(0)
	if *watch {
		if err := watchFile(ctx, filename, validator, 200*time.Millisecond); err != nil {
			fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := validator.validateFile(ctx, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(validator.out, "Story file is valid!")
}
