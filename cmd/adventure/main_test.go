package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/story-graph/internal/config"
	"github.com/stretchr/testify/assert"
)

const forkStory = `3
<<<
A fork in the road.
>>> <2>
***
+ 1. take the left path
+ 2. take the right path
***
<<<
You found the treasure.
>>> <WON>
<<<
You fell into a pit.
>>>
<FAILED>
`

func testConfig() *config.Config {
	return &config.Config{MaxText: 4096, MaxChoices: 10, LogLevel: slog.LevelDebug}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOut  string
		wantCode int
	}{
		{name: "won", input: forkStory + "1\n", wantOut: "WON\n"},
		{name: "failed", input: forkStory + "2\n", wantOut: "FAILED\n"},
		{name: "waiting without input", input: forkStory, wantOut: "WAITING\n"},
		{name: "waiting on unknown id", input: forkStory + "9\n", wantOut: "WAITING\n"},
		{name: "single won scene", input: "1\n<<<\nDone.\n>>> <WON>\n", wantOut: "WON\n"},
		{name: "malformed story", input: "2\n<<<\nDone.\n>>> <WON>\n", wantCode: 1},
		{name: "empty input", input: "", wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

			code := run(context.Background(), testConfig(), log, strings.NewReader(tt.input), &out)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out.String())
			if tt.wantCode != 0 {
				assert.Contains(t, logs.String(), "Story construction failed")
			}
		})
	}
}

func TestRun_UsesConfiguredLimits(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChoices = 1

	var out bytes.Buffer
	code := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), strings.NewReader(forkStory+"1\n"), &out)
	assert.Equal(t, 1, code)
	assert.Empty(t, out.String())
}
