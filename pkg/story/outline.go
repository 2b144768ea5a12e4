package story

import (
	"fmt"

	"github.com/jwebster45206/story-graph/pkg/dynvec"
)

// ChoiceOutline describes one choice of a node.
type ChoiceOutline struct {
	Letter string `yaml:"letter"`
	Label  string `yaml:"label"`
	Target int    `yaml:"target"`
}

// NodeOutline is a flat, serialisable view of a node.
type NodeOutline struct {
	Index          int             `yaml:"index"`
	Classification Classification  `yaml:"classification"`
	Text           string          `yaml:"text"`
	Reachable      bool            `yaml:"reachable"`
	Choices        []ChoiceOutline `yaml:"choices,omitempty"`
}

// Outline lists every node in input order.
func (s *Story) Outline() []NodeOutline {
	reachable := make(map[int]bool)
	for _, i := range s.Reachable() {
		reachable[i] = true
	}

	out := make([]NodeOutline, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		node := s.Node(i)
		scene := node.Scene()
		if scene == nil {
			continue
		}
		no := NodeOutline{
			Index:          i,
			Classification: scene.Classification(),
			Text:           scene.Text(),
			Reachable:      reachable[i],
		}
		for j, edge := range node.Edges() {
			label, _ := scene.Choice(j)
			no.Choices = append(no.Choices, ChoiceOutline{
				Letter: string(rune('a' + j)),
				Label:  label,
				Target: edge,
			})
		}
		out = append(out, no)
	}
	return out
}

// Reachable returns the indices of the nodes reachable from the start node,
// in ascending order.
func (s *Story) Reachable() []int {
	n := s.Len()
	if n == 0 {
		return nil
	}
	seen := make([]bool, n)
	queue := dynvec.New[int]()
	defer queue.Free()

	_ = queue.Push(s.startIndex())
	seen[s.startIndex()] = true
	for head := 0; head < queue.Len(); head++ {
		i, _ := queue.Get(head)
		for _, next := range s.Node(i).Edges() {
			if next < 0 || next >= n || seen[next] {
				continue
			}
			seen[next] = true
			if err := queue.Push(next); err != nil {
				break
			}
		}
	}

	out := make([]int, 0, queue.Len())
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Counts tallies the nodes by classification.
func (s *Story) Counts() map[Classification]int {
	if s == nil {
		return map[Classification]int{}
	}
	return dynvec.Fold(s.nodes, map[Classification]int{}, func(acc map[Classification]int, n *Node) map[Classification]int {
		if class, err := n.Classification(); err == nil {
			acc[class]++
		}
		return acc
	})
}

// Warning is a structural problem that does not stop a story from being played.
type Warning struct {
	Node    int    `yaml:"node"`
	Message string `yaml:"message"`
}

func (w Warning) String() string {
	if w.Node < 0 {
		return w.Message
	}
	return fmt.Sprintf("node %d: %s", w.Node, w.Message)
}

// Lint looks for parts of the graph a player can never use or never leave.
func (s *Story) Lint() []Warning {
	if s.Len() == 0 {
		return nil
	}
	var warnings []Warning

	reachable := dynvec.New[int]()
	defer reachable.Free()
	for _, i := range s.Reachable() {
		_ = reachable.Push(i)
	}
	sameIndex := func(a, b int) bool { return a == b }

	for i := 0; i < s.Len(); i++ {
		if !reachable.Contains(i, sameIndex) {
			warnings = append(warnings, Warning{Node: i, Message: "unreachable from the start node"})
		}
	}

	isTerminal := func(i int) bool {
		class, err := s.Node(i).Classification()
		return err == nil && class.Terminal()
	}
	if !reachable.Exists(isTerminal) {
		warnings = append(warnings, Warning{Node: -1, Message: "no WON or FAILED scene is reachable"})
	}

	for i := 0; i < s.Len(); i++ {
		warnings = append(warnings, s.lintNode(i)...)
	}
	return warnings
}

func (s *Story) lintNode(i int) []Warning {
	node := s.Node(i)
	scene := node.Scene()
	if scene == nil || scene.Classification() != Ongoing {
		return nil
	}
	var warnings []Warning

	ids := dynvec.New[int]()
	defer ids.Free()
	for j := 0; j < scene.NumChoices(); j++ {
		id, _ := scene.Target(j)
		if ids.Contains(id, func(a, b int) bool { return a == b }) {
			warnings = append(warnings, Warning{Node: i, Message: fmt.Sprintf("choice %c repeats id %d and can never be picked", 'a'+j, id)})
		}
		_ = ids.Push(id)
	}

	edges := dynvec.New[int]()
	defer edges.Free()
	for _, e := range node.Edges() {
		_ = edges.Push(e)
	}
	if edges.ForAll(func(e int) bool { return e == i }) {
		warnings = append(warnings, Warning{Node: i, Message: "every choice loops back to this scene"})
	} else if j := edges.Find(func(e int) bool { return e == i }); j != dynvec.NotFound {
		warnings = append(warnings, Warning{Node: i, Message: fmt.Sprintf("choice %c loops back to this scene", 'a'+j)})
	}
	return warnings
}
