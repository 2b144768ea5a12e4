package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScene(t *testing.T, class Classification, labels ...string) *Scene {
	t.Helper()
	s, err := NewScene("scene", class, labels)
	require.NoError(t, err)
	return s
}

func TestNewNode(t *testing.T) {
	ongoing := mustScene(t, Ongoing, "1. a", "2. b")
	won := mustScene(t, Won)

	tests := []struct {
		name    string
		scene   *Scene
		edges   int
		wantErr error
	}{
		{name: "ongoing matching edges", scene: ongoing, edges: 2},
		{name: "terminal without edges", scene: won, edges: 0},
		{name: "nil scene", scene: nil, edges: 0, wantErr: ErrNoScene},
		{name: "ongoing with wrong count", scene: ongoing, edges: 1, wantErr: ErrInvalidArgument},
		{name: "negative count", scene: won, edges: -1, wantErr: ErrInvalidArgument},
		{name: "count past ceiling", scene: won, edges: DefaultMaxChoices + 1, wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNode(tt.scene, tt.edges)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.edges, n.NumEdges())
			for _, e := range n.Edges() {
				assert.Equal(t, Unresolved, e)
			}
		})
	}
}

func TestNode_SetAndFollowEdge(t *testing.T) {
	n, err := NewNode(mustScene(t, Ongoing, "1. a", "2. b"), 2)
	require.NoError(t, err)

	require.NoError(t, n.SetEdge(0, 1))
	require.NoError(t, n.SetEdge(1, 2))

	got, err := n.FollowEdge(1)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	assert.ErrorIs(t, n.SetEdge(2, 5), ErrInvalidArgument)
	assert.ErrorIs(t, n.SetEdge(-1, 5), ErrInvalidArgument)
	assert.Equal(t, []int{1, 2}, n.Edges())

	_, err = n.FollowEdge(2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = n.FollowEdge(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNode_Classification(t *testing.T) {
	n, err := NewNode(mustScene(t, Won), 0)
	require.NoError(t, err)
	class, err := n.Classification()
	require.NoError(t, err)
	assert.Equal(t, Won, class)

	var nilNode *Node
	class, err = nilNode.Classification()
	assert.ErrorIs(t, err, ErrNoScene)
	assert.Equal(t, Failed, class)

	class, err = (&Node{}).Classification()
	assert.ErrorIs(t, err, ErrNoScene)
	assert.Equal(t, Failed, class)
}
