package dynvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, xs ...int) *Vec[int] {
	t.Helper()
	v := New[int]()
	for _, x := range xs {
		require.NoError(t, v.Push(x))
	}
	return v
}

func isEven(x int) bool { return x%2 == 0 }

func TestMap(t *testing.T) {
	v := fill(t, 1, 2, 3)
	var order []int
	v.Map(func(x *int) {
		order = append(order, *x)
		*x *= 10
	})
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, []int{10, 20, 30}, v.Slice())
}

func TestFilter(t *testing.T) {
	v := fill(t, 1, 2, 3, 4, 5, 6)
	evens, err := v.Filter(isEven)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, evens.Slice())
	assert.Equal(t, 6, v.Len(), "source must be untouched")

	// The result owns its own store.
	require.NoError(t, evens.Set(0, 100))
	got, _ := v.Get(1)
	assert.Equal(t, 2, got)
}

func TestFilter_RespectsCeiling(t *testing.T) {
	v := New[int](WithMaxCapacity(8))
	for i := 0; i < 8; i++ {
		require.NoError(t, v.Push(i))
	}
	all, err := v.Filter(func(int) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 8, all.Len())
}

func TestExistsAndForAll_ShortCircuit(t *testing.T) {
	v := fill(t, 1, 2, 3, 4)

	calls := 0
	assert.True(t, v.Exists(func(x int) bool {
		calls++
		return x == 2
	}))
	assert.Equal(t, 2, calls)

	calls = 0
	assert.False(t, v.ForAll(func(x int) bool {
		calls++
		return x < 2
	}))
	assert.Equal(t, 2, calls)

	assert.True(t, v.ForAll(func(x int) bool { return x > 0 }))
	assert.False(t, v.Exists(func(x int) bool { return x > 10 }))

	empty := New[int]()
	assert.True(t, empty.ForAll(func(int) bool { return false }))
	assert.False(t, empty.Exists(func(int) bool { return true }))
}

func TestFind(t *testing.T) {
	v := fill(t, 5, 8, 10, 12)
	assert.Equal(t, 1, v.Find(isEven))
	assert.Equal(t, NotFound, v.Find(func(x int) bool { return x > 100 }))
}

func TestIndexOfAndContains(t *testing.T) {
	v := fill(t, 3, 7, 7, 9)
	eq := func(a, b int) bool { return a == b }

	assert.Equal(t, 1, v.IndexOf(7, eq))
	assert.Equal(t, NotFound, v.IndexOf(4, eq))
	assert.True(t, v.Contains(9, eq))
	assert.False(t, v.Contains(4, eq))
}

func TestFold_LeftToRight(t *testing.T) {
	v := fill(t, 1, 2, 3)
	got := Fold(v, "", func(acc string, x int) string {
		return acc + string(rune('0'+x))
	})
	assert.Equal(t, "123", got)

	sum := Fold(v, 100, func(acc, x int) int { return acc + x })
	assert.Equal(t, 106, sum)

	var nilVec *Vec[int]
	assert.Equal(t, 5, Fold(nilVec, 5, func(acc, x int) int { return acc + x }))
}
