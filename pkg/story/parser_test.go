package story

import (
	"bufio"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/jwebster45206/story-graph/pkg/dynvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleWonRecord(t *testing.T) {
	st, err := Parse(strings.NewReader("1\n<<<\nYou win.\n>>> <WON>\n"))
	require.NoError(t, err)
	defer st.Release()

	require.Equal(t, 1, st.Len())
	assert.Equal(t, StateWon, st.State())
	assert.Equal(t, "You win.", st.Start().Scene().Text())
	assert.Equal(t, 0, st.Start().NumEdges())
}

func TestParse_Fork(t *testing.T) {
	st, err := Parse(strings.NewReader(forkStory))
	require.NoError(t, err)
	defer st.Release()

	require.Equal(t, 3, st.Len())
	start := st.Start()
	assert.Equal(t, "A fork in the road.", start.Scene().Text())
	assert.Equal(t, []string{"1. take the left path", "2. take the right path"}, start.Scene().Choices())
	assert.Equal(t, []int{1, 2}, start.Edges())

	class, err := st.Node(1).Classification()
	require.NoError(t, err)
	assert.Equal(t, Won, class)

	class, err = st.Node(2).Classification()
	require.NoError(t, err)
	assert.Equal(t, Failed, class)
	assert.Equal(t, "You fell into a pit.", st.Node(2).Scene().Text())
}

func TestParse_TagLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		class Classification
	}{
		{
			name:  "tag after marker",
			input: "1\n<<<\nEnd.\n>>> <WON>\n",
			text:  "End.",
			class: Won,
		},
		{
			name:  "tag on its own line",
			input: "1\n<<<\nEnd.\n>>>\n<FAILED>\n",
			text:  "End.",
			class: Failed,
		},
		{
			name:  "marker at end of text line",
			input: "1\n<<<\nThe end.>>> <WON>\n",
			text:  "The end.",
			class: Won,
		},
		{
			name:  "tag glued to marker",
			input: "1\n<<<\nEnd.\n>>><FAILED>\n",
			text:  "End.",
			class: Failed,
		},
		{
			name:  "bare word after marker falls back to next line",
			input: "1\n<<<\nEnd.\n>>> see below\n<WON>\n",
			text:  "End.",
			class: Won,
		},
		{
			name:  "multi line text",
			input: "1\n<<<\nFirst line.\nSecond line.\n>>> <WON>\n",
			text:  "First line.\nSecond line.",
			class: Won,
		},
		{
			name:  "crlf input",
			input: "1\r\n<<<\r\nEnd.\r\n>>> <WON>\r\n",
			text:  "End.",
			class: Won,
		},
		{
			name:  "no trailing newline",
			input: "1\n<<<\nEnd.\n>>> <WON>",
			text:  "End.",
			class: Won,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			defer st.Release()

			scene := st.Start().Scene()
			assert.Equal(t, tt.text, scene.Text())
			assert.Equal(t, tt.class, scene.Classification())
		})
	}
}

func TestParse_OngoingTagOnOwnLine(t *testing.T) {
	input := buildInput(
		testRecord{text: "Start.", targets: []int{1}, ownLine: true},
		testRecord{text: "Won.", tag: "WON", ownLine: true},
	)
	st, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	defer st.Release()

	assert.Equal(t, []int{1}, st.Start().Edges())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: ErrMalformed},
		{name: "count not a number", input: "many\n", wantErr: ErrMalformed},
		{name: "zero records", input: "0\n", wantErr: ErrMalformed},
		{name: "missing records", input: "2\n<<<\nEnd.\n>>> <WON>\n", wantErr: io.ErrUnexpectedEOF},
		{name: "no closing marker", input: "1\n<<<\nEnd.\n", wantErr: ErrMalformed},
		{name: "unknown tag", input: "1\n<<<\nEnd.\n>>> <MAYBE>\n", wantErr: ErrMalformed},
		{name: "tag without bracket", input: "1\n<<<\nEnd.\n>>>\n3\n", wantErr: ErrMalformed},
		{name: "zero choices", input: "1\n<<<\nEnd.\n>>> <0>\n", wantErr: ErrMalformed},
		{
			name:    "too many choices",
			input:   "1\n<<<\nToo many.\n>>> <11>\n***\n" + strings.Repeat("+ 0. again\n", 11) + "***\n",
			wantErr: ErrTooManyChoices,
		},
		{name: "text too long", input: "1\n<<<\n" + strings.Repeat("x", DefaultMaxText) + "\n>>> <WON>\n", wantErr: ErrTextTooLong},
		{name: "choice without target", input: "1\n<<<\nHm.\n>>> <1>\n***\n+ left\n***\n", wantErr: ErrMalformed},
		{name: "choice line too short", input: "1\n<<<\nHm.\n>>> <1>\n***\n+\n***\n", wantErr: ErrMalformed},
		{name: "missing choices", input: "1\n<<<\nHm.\n>>> <2>\n***\n+ 0. stay\n", wantErr: ErrMalformed},
		{name: "target past the end", input: "1\n<<<\nHm.\n>>> <1>\n***\n+ 5. nowhere\n***\n", wantErr: ErrUnresolvedTarget},
		{name: "negative target", input: "1\n<<<\nHm.\n>>> <1>\n***\n+ -1. nowhere\n***\n", wantErr: ErrUnresolvedTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Parse(strings.NewReader(tt.input))
			assert.Nil(t, st)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_TextLimitBoundary(t *testing.T) {
	input := "1\n<<<\n" + strings.Repeat("x", DefaultMaxText-1) + "\n>>> <WON>\n"
	st, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	defer st.Release()
	assert.Len(t, st.Start().Scene().Text(), DefaultMaxText-1)
}

func TestParse_WithLimits(t *testing.T) {
	input := buildInput(
		testRecord{text: "Pick.", targets: []int{1, 1, 1}},
		testRecord{text: "Won.", tag: "WON"},
	)

	_, err := Parse(strings.NewReader(input), WithLimits(Limits{MaxChoices: 2}))
	assert.ErrorIs(t, err, ErrTooManyChoices)

	_, err = Parse(strings.NewReader(input), WithLimits(Limits{MaxText: 4}))
	assert.ErrorIs(t, err, ErrTextTooLong)

	st, err := Parse(strings.NewReader(input), WithLimits(Limits{MaxText: 6, MaxChoices: 3}))
	require.NoError(t, err)
	st.Release()
}

func TestParse_MaxRecordsFailsMidConstruction(t *testing.T) {
	input := buildInput(
		testRecord{text: "One.", targets: []int{1}},
		testRecord{text: "Two.", targets: []int{2}},
		testRecord{text: "Three.", tag: "WON"},
	)

	st, err := Parse(strings.NewReader(input), WithMaxRecords(2))
	assert.Nil(t, st)
	assert.ErrorIs(t, err, dynvec.ErrResourceExhausted)
	assert.Contains(t, err.Error(), "record 2")
}

func TestParse_LeavesSessionInputUnread(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(loopStory + "0 0\n"))
	st, err := Parse(in)
	require.NoError(t, err)
	defer st.Release()

	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "0 0\n", string(rest))
}

// Every edge must point at the record whose index the input names.
func TestParse_EdgesMatchTargets(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 25; round++ {
		n := 1 + rng.Intn(20)
		records := make([]testRecord, n)
		for i := range records {
			switch rng.Intn(4) {
			case 0:
				records[i] = testRecord{text: "won", tag: "WON", ownLine: rng.Intn(2) == 0}
			case 1:
				records[i] = testRecord{text: "failed", tag: "FAILED", ownLine: rng.Intn(2) == 0}
			default:
				targets := make([]int, 1+rng.Intn(DefaultMaxChoices))
				for j := range targets {
					targets[j] = rng.Intn(n)
				}
				records[i] = testRecord{text: "scene", targets: targets, ownLine: rng.Intn(2) == 0}
			}
		}

		st, err := Parse(strings.NewReader(buildInput(records...)))
		require.NoError(t, err, "round %d", round)
		require.Equal(t, n, st.Len())
		for i, rec := range records {
			node := st.Node(i)
			if rec.tag != "" {
				assert.Equal(t, 0, node.NumEdges())
				continue
			}
			require.Equal(t, len(rec.targets), node.NumEdges())
			for j, target := range rec.targets {
				got, err := node.FollowEdge(j)
				require.NoError(t, err)
				assert.Equal(t, target, got, "round %d node %d edge %d", round, i, j)
				assert.Same(t, st.Node(target), st.Node(got))
			}
		}
		st.Release()
	}
}

func TestBuilder_AbortReleasesEverything(t *testing.T) {
	b := newBuilder(DefaultLimits(), 2)
	require.NoError(t, b.add(record{text: "one", class: Ongoing, labels: []string{"1. on"}, targets: []int{1}}))
	require.NoError(t, b.add(record{text: "two", class: Won}))
	assert.Equal(t, 4, b.live)

	err := b.add(record{text: "three", class: Failed})
	assert.ErrorIs(t, err, dynvec.ErrResourceExhausted)
	assert.Equal(t, 4, b.live, "the rejected scene and node must already be gone")

	scenes := b.scenes.Slice()
	nodes := b.nodes.Slice()
	b.abort()

	assert.Equal(t, 0, b.live)
	for _, s := range scenes {
		assert.True(t, s.freed)
	}
	for _, n := range nodes {
		assert.True(t, n.freed)
	}
	assert.Equal(t, 0, b.scenes.Cap())
	assert.Equal(t, 0, b.nodes.Cap())
}

func TestBuilder_InvalidRecordReleasesScene(t *testing.T) {
	b := newBuilder(DefaultLimits(), 0)
	err := b.add(record{text: "bad", class: Won, labels: []string{"1. nope"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, b.live)
	assert.Equal(t, 0, b.scenes.Len())
}

func TestBuilder_ResolveFailureCanAbort(t *testing.T) {
	b := newBuilder(DefaultLimits(), 0)
	require.NoError(t, b.add(record{text: "one", class: Ongoing, labels: []string{"3. gone"}, targets: []int{3}}))

	st, err := b.resolve()
	assert.Nil(t, st)
	assert.ErrorIs(t, err, ErrUnresolvedTarget)

	b.abort()
	assert.Equal(t, 0, b.live)
}
