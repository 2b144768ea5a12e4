package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound is returned when no story source exists under a name.
var ErrNotFound = errors.New("story not found")

// Storage holds raw story sources by name. Sources are the story text
// format itself; nothing else about a session is stored.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// ListStories returns every known story name, sorted.
	ListStories(ctx context.Context) ([]string, error)
	// GetStory returns the source of a story, or ErrNotFound.
	GetStory(ctx context.Context, name string) (string, error)
	SaveStory(ctx context.Context, name, source string) error
	DeleteStory(ctx context.Context, name string) error
}

// StoryExt is the file extension of story sources in the data directory.
const StoryExt = ".txt"

var validNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// NameFromFile derives a story name from a file name ("The Cave.txt" -> "the_cave").
func NameFromFile(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, StoryExt)
	base = strings.ToLower(base)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, base)
}

// ValidateName checks that name is lowercase snake_case.
func ValidateName(name string) error {
	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("story name %q must be lowercase snake_case", name)
	}
	return nil
}
