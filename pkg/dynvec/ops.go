package dynvec

// Map calls fn on a pointer to every live element, in index order.
func (v *Vec[T]) Map(fn func(*T)) {
	if v == nil || fn == nil {
		return
	}
	for i := 0; i < v.length; i++ {
		fn(&v.data[i])
	}
}

// Filter returns a new vector holding the elements that satisfy pred,
// in their original order. The result shares the receiver's ceiling.
func (v *Vec[T]) Filter(pred func(T) bool) (*Vec[T], error) {
	var opts []Option
	if v != nil && v.limit > 0 {
		opts = append(opts, WithMaxCapacity(v.limit))
	}
	out := New[T](opts...)
	if v == nil || pred == nil {
		return out, nil
	}
	for i := 0; i < v.length; i++ {
		if !pred(v.data[i]) {
			continue
		}
		if err := out.Push(v.data[i]); err != nil {
			out.Free()
			return nil, err
		}
	}
	return out, nil
}

// Exists reports whether any element satisfies pred. It stops at the first match.
func (v *Vec[T]) Exists(pred func(T) bool) bool {
	return v.Find(pred) != NotFound
}

// ForAll reports whether every element satisfies pred. It stops at the first miss.
func (v *Vec[T]) ForAll(pred func(T) bool) bool {
	if v == nil {
		return true
	}
	for i := 0; i < v.length; i++ {
		if !pred(v.data[i]) {
			return false
		}
	}
	return true
}

// Find returns the index of the first element satisfying pred, or NotFound.
func (v *Vec[T]) Find(pred func(T) bool) int {
	if v == nil || pred == nil {
		return NotFound
	}
	for i := 0; i < v.length; i++ {
		if pred(v.data[i]) {
			return i
		}
	}
	return NotFound
}

// IndexOf returns the index of the first element eq considers equal to
// target, or NotFound.
func (v *Vec[T]) IndexOf(target T, eq func(a, b T) bool) int {
	return v.Find(func(elem T) bool { return eq(elem, target) })
}

// Contains reports whether some element is equal to target under eq.
func (v *Vec[T]) Contains(target T, eq func(a, b T) bool) bool {
	return v.IndexOf(target, eq) != NotFound
}

// Fold combines the elements of v left to right, starting from seed.
func Fold[T, A any](v *Vec[T], seed A, fn func(acc A, elem T) A) A {
	acc := seed
	if v == nil {
		return acc
	}
	for i := 0; i < v.length; i++ {
		acc = fn(acc, v.data[i])
	}
	return acc
}
