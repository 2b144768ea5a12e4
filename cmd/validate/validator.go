package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/story-graph/internal/storage"
	"github.com/jwebster45206/story-graph/pkg/story"
	"gopkg.in/yaml.v3"
)

type StoryValidator struct {
	limits story.Limits
	logger *slog.Logger
	store  storage.Storage
	out    io.Writer
	yaml   bool

	errors   []string
	warnings []string
}

// outlineDoc is the YAML document printed by -yaml.
type outlineDoc struct {
	Name     string              `yaml:"name"`
	Nodes    int                 `yaml:"nodes"`
	Counts   map[string]int      `yaml:"counts"`
	Outline  []story.NodeOutline `yaml:"outline"`
	Warnings []story.Warning     `yaml:"warnings,omitempty"`
}

func (v *StoryValidator) validateFile(ctx context.Context, filename string) error {
	fmt.Fprintf(v.out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, storage.StoryExt) {
		return fmt.Errorf("story file must have %s extension: %s", storage.StoryExt, baseName)
	}
	name := strings.TrimSuffix(baseName, storage.StoryExt)
	if err := storage.ValidateName(name); err != nil {
		return fmt.Errorf("story filename '%s' must be lowercase snake_case (e.g., dark_forest.txt, not dark-forest.txt or DarkForest.txt)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return v.validateSource(ctx, name, data)
}

func (v *StoryValidator) validateSource(ctx context.Context, name string, data []byte) error {
	v.errors = nil
	v.warnings = nil

	st, err := story.Parse(bytes.NewReader(data), story.WithLimits(v.limits), story.WithLogger(v.logger))
	if err != nil {
		v.addError(err.Error())
		return fmt.Errorf("validation errors in %s:\n%s", name, strings.Join(v.errors, "\n"))
	}
	defer st.Release()

	for _, w := range st.Lint() {
		v.addWarning(w.String())
	}

	counts := st.Counts()
	fmt.Fprintf(v.out, "%d scenes: %d ongoing, %d won, %d failed\n",
		st.Len(), counts[story.Ongoing], counts[story.Won], counts[story.Failed])

	if len(v.warnings) > 0 {
		fmt.Fprintln(v.out, "Warnings:")
		for _, w := range v.warnings {
			fmt.Fprintf(v.out, "  - %s\n", w)
		}
	}

	if v.yaml {
		if err := v.writeOutline(name, st); err != nil {
			return err
		}
	}

	if v.store != nil {
		if err := v.store.SaveStory(ctx, name, string(data)); err != nil {
			return fmt.Errorf("failed to publish %s: %w", name, err)
		}
		fmt.Fprintf(v.out, "Published %s\n", name)
		v.logger.Info("Story published", "name", name, "nodes", st.Len())
	}

	return nil
}

func (v *StoryValidator) writeOutline(name string, st *story.Story) error {
	counts := make(map[string]int)
	for class, n := range st.Counts() {
		counts[class.String()] = n
	}
	doc := outlineDoc{
		Name:     name,
		Nodes:    st.Len(),
		Counts:   counts,
		Outline:  st.Outline(),
		Warnings: st.Lint(),
	}

	enc := yaml.NewEncoder(v.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode outline: %w", err)
	}
	return enc.Close()
}

func (v *StoryValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *StoryValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}
