package story

import "errors"

var (
	// ErrMalformed covers input that does not follow the story grammar.
	ErrMalformed = errors.New("malformed story input")
	// ErrTextTooLong is returned when a scene description exceeds the text limit.
	ErrTextTooLong = errors.New("scene text too long")
	// ErrTooManyChoices is returned when a scene declares more choices than allowed.
	ErrTooManyChoices = errors.New("too many choices")
	// ErrInvalidArgument is returned for out of range edge positions and
	// for scene/node arguments that break the classification rules.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnresolvedTarget is returned when a choice names a record that does not exist.
	ErrUnresolvedTarget = errors.New("choice target does not exist")
	// ErrNoScene is returned when a node has no scene attached.
	ErrNoScene = errors.New("node has no scene")
)
