// Package ordered provides an insertion ordered, index addressable collection.
package ordered

import "slices"

// Collection is an ordered sequence of T.
// The zero value is an empty collection ready to use.
// Insert and Remove shift the indices of later elements, nothing else does.
type Collection[T any] struct {
	terms []T
}

// All returns a copy of the contents in order.
func (cl *Collection[T]) All() []T {
	if cl.terms == nil {
		return []T{}
	}
	return slices.Clone(cl.terms)
}

// Size returns the element count.
func (cl *Collection[T]) Size() int {
	return len(cl.terms)
}

// Clear empties the collection.
func (cl *Collection[T]) Clear() {
	cl.terms = nil
}

// Get returns the element at index, or the zero value and false when out of range.
func (cl *Collection[T]) Get(index int) (value T, ok bool) {
	if index < 0 || index >= len(cl.terms) {
		return
	}
	return cl.terms[index], true
}

// Set overwrites the element at index.
// Setting past the end grows the collection, filling the gap with zero values.
// A negative index is ignored.
func (cl *Collection[T]) Set(index int, value T) {
	if index < 0 {
		return
	}

	if index >= len(cl.terms) {
		grown := make([]T, index+1)
		copy(grown, cl.terms)
		cl.terms = grown
	}
	cl.terms[index] = value
}

// Add appends value.
func (cl *Collection[T]) Add(value T) {
	cl.terms = append(cl.terms, value)
}

// Insert places value immediately after the element at index, so -1 prepends.
// Positions follow splice rules: below zero counts back from the end and
// past the end lands at the end.
func (cl *Collection[T]) Insert(index int, value T) {
	cl.terms = slices.Insert(cl.terms, spliceStart(index+1, len(cl.terms)), value)
}

// Remove deletes the element at index; out of range is a no-op.
func (cl *Collection[T]) Remove(index int) {
	if index < 0 || index >= len(cl.terms) {
		return
	}
	cl.terms = slices.Delete(cl.terms, index, index+1)
}

// unexported

func spliceStart(start, length int) int {
	if start < 0 {
		start += length
		if start < 0 {
			start = 0
		}
	}
	if start > length {
		start = length
	}
	return start
}
