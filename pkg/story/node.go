package story

import "fmt"

// Unresolved marks an edge that has not been wired yet.
const Unresolved = -1

// Node is a vertex of the story graph. It wraps one Scene and holds one
// edge per choice. Edges are indices into the owning Story's node list,
// so a node never keeps another node alive.
type Node struct {
	scene *Scene
	edges []int
	freed bool
}

// NewNode wraps scene with edgeCount unresolved edges, using the default
// choice ceiling.
func NewNode(scene *Scene, edgeCount int) (*Node, error) {
	return newNode(scene, edgeCount, DefaultMaxChoices)
}

func newNode(scene *Scene, edgeCount, maxChoices int) (*Node, error) {
	if scene == nil {
		return nil, fmt.Errorf("new node: %w", ErrNoScene)
	}
	if scene.class == Ongoing && edgeCount != len(scene.choices) {
		return nil, fmt.Errorf("node has %d edges for %d choices: %w", edgeCount, len(scene.choices), ErrInvalidArgument)
	}
	if edgeCount < 0 || edgeCount > maxChoices {
		return nil, fmt.Errorf("edge count %d outside [0, %d]: %w", edgeCount, maxChoices, ErrInvalidArgument)
	}

	edges := make([]int, edgeCount)
	for i := range edges {
		edges[i] = Unresolved
	}
	return &Node{scene: scene, edges: edges}, nil
}

// Scene returns the wrapped scene.
func (n *Node) Scene() *Scene {
	if n == nil {
		return nil
	}
	return n.scene
}

// NumEdges returns the number of outward edges.
func (n *Node) NumEdges() int {
	if n == nil {
		return 0
	}
	return len(n.edges)
}

// SetEdge points edge pos at the node with index target.
// Out of range positions leave the node untouched.
func (n *Node) SetEdge(pos, target int) error {
	if n == nil || pos < 0 || pos >= len(n.edges) {
		return fmt.Errorf("set edge %d of %d: %w", pos, n.NumEdges(), ErrInvalidArgument)
	}
	n.edges[pos] = target
	return nil
}

// FollowEdge returns the node index that choice leads to.
func (n *Node) FollowEdge(choice int) (int, error) {
	if n == nil || choice < 0 || choice >= len(n.edges) {
		return Unresolved, fmt.Errorf("follow edge %d of %d: %w", choice, n.NumEdges(), ErrInvalidArgument)
	}
	return n.edges[choice], nil
}

// Edges returns a copy of the edge indices.
func (n *Node) Edges() []int {
	if n == nil {
		return nil
	}
	return append([]int(nil), n.edges...)
}

// Classification returns the scene's classification. A nil node, or one
// without a scene, reports Failed together with ErrNoScene.
func (n *Node) Classification() (Classification, error) {
	if n == nil || n.scene == nil {
		return Failed, ErrNoScene
	}
	return n.scene.class, nil
}

// release frees the edge table. The scene is released by its owner.
func (n *Node) release() {
	if n == nil {
		return
	}
	n.edges = nil
	n.scene = nil
	n.freed = true
}
