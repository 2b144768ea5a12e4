package story

import (
	"fmt"

	"github.com/jwebster45206/story-graph/pkg/dynvec"
)

// State is the progress of a session through a story.
type State int

const (
	StateOngoing State = iota
	StateWon
	StateFailed
	// StateWaiting is reached when session input runs out or names a choice
	// the active scene does not offer. It is a halt, not an error.
	StateWaiting
)

func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ONGOING"
	case StateWon:
		return "WON"
	case StateFailed:
		return "FAILED"
	case StateWaiting:
		return "WAITING"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further choices can be applied.
func (s State) Terminal() bool {
	return s != StateOngoing
}

func stateOf(c Classification) State {
	switch c {
	case Won:
		return StateWon
	case Ongoing:
		return StateOngoing
	default:
		return StateFailed
	}
}

// Story is a parsed story graph plus the cursor of the session walking it.
// The story owns every node and scene; call Release when done.
type Story struct {
	scenes *dynvec.Vec[*Scene]
	nodes  *dynvec.Vec[*Node]
	start  int
	active int
	state  State
	path   []int
}

func newStory(scenes *dynvec.Vec[*Scene], nodes *dynvec.Vec[*Node]) *Story {
	s := &Story{scenes: scenes, nodes: nodes}
	s.Reset()
	return s
}

// Len returns the number of nodes.
func (s *Story) Len() int {
	if s == nil {
		return 0
	}
	return s.nodes.Len()
}

// Node returns the node at index i, or nil if there is none.
func (s *Story) Node(i int) *Node {
	if s == nil {
		return nil
	}
	n, err := s.nodes.Get(i)
	if err != nil {
		return nil
	}
	return n
}

// Start returns the first node of the story.
func (s *Story) Start() *Node { return s.Node(s.startIndex()) }

// Active returns the node the session is currently on.
func (s *Story) Active() *Node { return s.Node(s.ActiveIndex()) }

func (s *Story) startIndex() int {
	if s == nil {
		return Unresolved
	}
	return s.start
}

// ActiveIndex returns the index of the active node.
func (s *Story) ActiveIndex() int {
	if s == nil {
		return Unresolved
	}
	return s.active
}

// State returns the session state.
func (s *Story) State() State {
	if s == nil {
		return StateFailed
	}
	return s.state
}

// Path returns the indices of the nodes visited so far, start included.
func (s *Story) Path() []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s.path...)
}

// ApplyChoice advances the session along the choice whose label carries id.
// A terminal session is left as it is. An id that no choice carries halts
// the session in StateWaiting.
func (s *Story) ApplyChoice(id int) State {
	if s == nil || s.state.Terminal() {
		return s.State()
	}

	active := s.Active()
	scene := active.Scene()
	if scene == nil {
		s.state = StateFailed
		return s.state
	}

	matched := scene.choiceFor(id)
	if matched < 0 {
		s.state = StateWaiting
		return s.state
	}

	next, err := active.FollowEdge(matched)
	if err != nil || s.Node(next) == nil {
		s.state = StateWaiting
		return s.state
	}
	s.moveTo(next)
	return s.state
}

// Offers reports whether the active scene has a choice carrying id.
func (s *Story) Offers(id int) bool {
	if s == nil || s.state.Terminal() {
		return false
	}
	return s.Active().Scene().choiceFor(id) >= 0
}

// Exhaust records that no more session input will arrive.
func (s *Story) Exhaust() State {
	if s == nil {
		return StateFailed
	}
	if !s.state.Terminal() {
		s.state = StateWaiting
	}
	return s.state
}

// Reset puts the cursor back on the start node.
func (s *Story) Reset() {
	if s == nil {
		return
	}
	s.path = s.path[:0]
	s.start = 0
	s.moveTo(s.start)
}

func (s *Story) moveTo(i int) {
	s.active = i
	s.path = append(s.path, i)
	class, err := s.Node(i).Classification()
	if err != nil {
		s.state = StateFailed
		return
	}
	s.state = stateOf(class)
}

// Release frees every scene and node. Safe on nil and when called twice.
func (s *Story) Release() {
	if s == nil {
		return
	}
	releaseAll(s.scenes, s.nodes)
	s.scenes = nil
	s.nodes = nil
	s.path = nil
	s.active = Unresolved
	s.state = StateFailed
}

func releaseAll(scenes *dynvec.Vec[*Scene], nodes *dynvec.Vec[*Node]) {
	scenes.Map(func(sc **Scene) {
		(*sc).Release()
	})
	nodes.Map(func(n **Node) {
		(*n).release()
	})
	scenes.Free()
	nodes.Free()
}

func (s *Story) String() string {
	return fmt.Sprintf("story(%d nodes, active=%d, state=%s)", s.Len(), s.ActiveIndex(), s.State())
}
