package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-graph/pkg/story"
)

const storageTimeout = 5 * time.Second

type storiesLoadedMsg struct {
	names []string
	err   error
}

type storyLoadedMsg struct {
	name  string
	story *story.Story
	err   error
}

type clipboardMsg struct {
	err error
}

func (m ConsoleUI) loadStories() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		names, err := m.store.ListStories(ctx)
		return storiesLoadedMsg{names, err}
	}
}

func (m ConsoleUI) loadStory(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		source, err := m.store.GetStory(ctx, name)
		if err != nil {
			return storyLoadedMsg{name: name, err: err}
		}
		st, err := story.Parse(strings.NewReader(source), story.WithLimits(m.limits), story.WithLogger(m.logger))
		if err != nil {
			return storyLoadedMsg{name: name, err: fmt.Errorf("story %s: %w", name, err)}
		}
		return storyLoadedMsg{name: name, story: st}
	}
}

func (m ConsoleUI) copyTranscript() tea.Cmd {
	text := m.plainTranscript()
	return func() tea.Msg {
		return clipboardMsg{m.writeClipboard(text)}
	}
}
