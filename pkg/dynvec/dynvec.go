package dynvec

import (
	"errors"
	"math"
)

// DefaultCapacity is the capacity a vector starts with when none is given.
const DefaultCapacity = 4

// NotFound is returned by the index lookups when nothing matches.
const NotFound = -1

var (
	ErrOutOfBounds       = errors.New("index out of bounds")
	ErrResourceExhausted = errors.New("vector capacity exhausted")
)

// Vec is a growable sequence that doubles its backing store when full.
// Elements in [0, Len) are live; the rest of the store is never read.
type Vec[T any] struct {
	data   []T
	length int
	limit  int // 0 means no ceiling
}

// Option configures a Vec at creation.
type Option func(*config)

type config struct {
	capacity int
	limit    int
}

// WithCapacity sets the initial capacity. Values <= 0 fall back to DefaultCapacity.
func WithCapacity(c int) Option {
	return func(cfg *config) {
		if c > 0 {
			cfg.capacity = c
		}
	}
}

// WithMaxCapacity caps how far the vector may grow. A push that would need
// more room than this fails with ErrResourceExhausted.
func WithMaxCapacity(max int) Option {
	return func(cfg *config) {
		if max > 0 {
			cfg.limit = max
		}
	}
}

// New creates an empty vector.
func New[T any](opts ...Option) *Vec[T] {
	cfg := config{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	capacity := cfg.capacity
	if cfg.limit > 0 && capacity > cfg.limit {
		capacity = cfg.limit
	}
	return &Vec[T]{
		data:  make([]T, capacity),
		limit: cfg.limit,
	}
}

// Push appends v, doubling the capacity first if the vector is full.
// On ErrResourceExhausted the vector is left exactly as it was.
func (v *Vec[T]) Push(elem T) error {
	if v.length >= len(v.data) {
		if err := v.grow(); err != nil {
			return err
		}
	}
	v.data[v.length] = elem
	v.length++
	return nil
}

func (v *Vec[T]) grow() error {
	current := len(v.data)
	next := current * 2
	if current == 0 {
		next = DefaultCapacity
	}
	if current > math.MaxInt/2 {
		return ErrResourceExhausted
	}
	if v.limit > 0 && next > v.limit {
		if current >= v.limit {
			return ErrResourceExhausted
		}
		next = v.limit
	}
	data := make([]T, next)
	copy(data, v.data[:v.length])
	v.data = data
	return nil
}

// Get returns the element at index i.
func (v *Vec[T]) Get(i int) (T, error) {
	var zero T
	if v == nil || i < 0 || i >= v.length {
		return zero, ErrOutOfBounds
	}
	return v.data[i], nil
}

// Set overwrites the element at index i. Out of range indices are ignored
// and reported as ErrOutOfBounds.
func (v *Vec[T]) Set(i int, elem T) error {
	if v == nil || i < 0 || i >= v.length {
		return ErrOutOfBounds
	}
	v.data[i] = elem
	return nil
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int {
	if v == nil {
		return 0
	}
	return v.length
}

// Cap returns the size of the backing store.
func (v *Vec[T]) Cap() int {
	if v == nil {
		return 0
	}
	return len(v.data)
}

// Free drops the backing store. Safe on nil and on an already freed vector.
func (v *Vec[T]) Free() {
	if v == nil {
		return
	}
	clear(v.data)
	v.data = nil
	v.length = 0
}

// Slice returns a copy of the live elements.
func (v *Vec[T]) Slice() []T {
	out := make([]T, v.Len())
	if v != nil {
		copy(out, v.data[:v.length])
	}
	return out
}
