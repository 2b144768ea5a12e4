package story

// Classification tells whether a scene continues the story or ends it.
type Classification int

const (
	Ongoing Classification = iota
	Won
	Failed
)

func (c Classification) String() string {
	switch c {
	case Ongoing:
		return "NORMAL"
	case Won:
		return "WON"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalYAML writes the classification by name in outlines.
func (c Classification) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Terminal reports whether the classification ends a session.
func (c Classification) Terminal() bool {
	return c == Won || c == Failed
}

// Limits bound the size of a single scene.
type Limits struct {
	MaxText    int // description buffer size; a description may use MaxText-1 bytes
	MaxChoices int
}

const (
	DefaultMaxText    = 4096
	DefaultMaxChoices = 10
)

// DefaultLimits returns the limits the story format was designed around.
func DefaultLimits() Limits {
	return Limits{MaxText: DefaultMaxText, MaxChoices: DefaultMaxChoices}
}

func (l Limits) normalize() Limits {
	if l.MaxText <= 0 {
		l.MaxText = DefaultMaxText
	}
	if l.MaxChoices <= 0 {
		l.MaxChoices = DefaultMaxChoices
	}
	return l
}
