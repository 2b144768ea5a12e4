package story

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Scene is one narrative beat: its description, how it is classified and,
// while the story is ongoing, the labelled choices offered to the player.
// A Scene is not modified after construction.
type Scene struct {
	text    string
	class   Classification
	choices []string
	freed   bool
}

// NewScene builds a scene using the default choice ceiling.
// Ongoing scenes need at least one label; Won and Failed scenes take none.
func NewScene(text string, class Classification, labels []string) (*Scene, error) {
	return newScene(text, class, labels, DefaultMaxChoices)
}

func newScene(text string, class Classification, labels []string, maxChoices int) (*Scene, error) {
	switch class {
	case Ongoing:
		if len(labels) == 0 {
			return nil, fmt.Errorf("ongoing scene needs at least one choice: %w", ErrInvalidArgument)
		}
		if len(labels) > maxChoices {
			return nil, fmt.Errorf("%d choices, at most %d allowed: %w", len(labels), maxChoices, ErrTooManyChoices)
		}
	case Won, Failed:
		if len(labels) != 0 {
			return nil, fmt.Errorf("%s scene cannot offer choices: %w", class, ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("unknown classification %d: %w", int(class), ErrInvalidArgument)
	}

	s := &Scene{
		text:  strings.Clone(text),
		class: class,
	}
	if len(labels) > 0 {
		s.choices = make([]string, len(labels))
		for i, label := range labels {
			s.choices[i] = strings.Clone(label)
		}
	}
	return s, nil
}

// Text returns the scene description.
func (s *Scene) Text() string { return s.text }

// Classification returns whether the scene is ongoing, won or failed.
func (s *Scene) Classification() Classification { return s.class }

// NumChoices returns how many choices the scene offers.
func (s *Scene) NumChoices() int { return len(s.choices) }

// Choice returns the label at index i.
func (s *Scene) Choice(i int) (string, error) {
	if i < 0 || i >= len(s.choices) {
		return "", fmt.Errorf("choice %d of %d: %w", i, len(s.choices), ErrInvalidArgument)
	}
	return s.choices[i], nil
}

// Choices returns a copy of the labels.
func (s *Scene) Choices() []string {
	return append([]string(nil), s.choices...)
}

// Target returns the target identifier written at the start of choice i.
func (s *Scene) Target(i int) (int, bool) {
	label, err := s.Choice(i)
	if err != nil {
		return 0, false
	}
	return parseTarget(label)
}

// parseTarget reads the "<id>." prefix of a choice label. Leading blanks
// are skipped.
func parseTarget(label string) (int, bool) {
	id, rest, ok := leadingInt(strings.TrimLeftFunc(label, unicode.IsSpace))
	if !ok || !strings.HasPrefix(rest, ".") {
		return 0, false
	}
	return id, true
}

// choiceFor returns the position of the first choice whose label carries
// id, or -1.
func (s *Scene) choiceFor(id int) int {
	if s == nil {
		return -1
	}
	for i := range s.choices {
		if target, ok := s.Target(i); ok && target == id {
			return i
		}
	}
	return -1
}

// Render writes the scene in transcript form.
func (s *Scene) Render(w io.Writer) error {
	if s == nil {
		return fmt.Errorf("render: %w", ErrInvalidArgument)
	}
	var b strings.Builder
	b.WriteString("<<<\n")
	b.WriteString(s.text)
	b.WriteString("\n>>>")
	if s.class == Ongoing {
		fmt.Fprintf(&b, "<%d>\n***\n", len(s.choices))
		for i, label := range s.choices {
			fmt.Fprintf(&b, "+ %c. %s\n", 'a'+i, label)
		}
		b.WriteString("***\n")
	} else {
		fmt.Fprintf(&b, "<%s>\n***\n", s.class)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (s *Scene) String() string {
	var b strings.Builder
	_ = s.Render(&b)
	return b.String()
}

// Release drops the scene's text and labels. Safe on nil.
func (s *Scene) Release() {
	if s == nil {
		return
	}
	s.text = ""
	clear(s.choices)
	s.choices = nil
	s.freed = true
}
