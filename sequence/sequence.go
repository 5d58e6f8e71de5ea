/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sequence

import (
	"github.com/suparena/localstore/errors"
)

// Sequence is an ordered, finite, in-memory view over a snapshot of elements.
// Every operator returns a fresh Sequence and never mutates the receiver's
// backing elements; ordering operators sort a private copy of the backing
// slice, never the caller's original.
type Sequence[T any] struct {
	items []T
}

// New creates a Sequence backed by a copy of the given slice, so later
// mutation of the caller's slice cannot leak into the sequence.
func New[T any](items []T) Sequence[T] {
	backing := make([]T, len(items))
	copy(backing, items)
	return Sequence[T]{items: backing}
}

// Of creates a Sequence from the given elements.
func Of[T any](items ...T) Sequence[T] {
	return New(items)
}

// wrap adopts a slice the package itself allocated.
func wrap[T any](items []T) Sequence[T] {
	return Sequence[T]{items: items}
}

// Len returns the number of elements.
func (s Sequence[T]) Len() int {
	return len(s.items)
}

// At returns the element at index i. The second return value is false when i
// is out of range.
func (s Sequence[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// ToSlice returns a copy of the elements in order.
func (s Sequence[T]) ToSlice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Skip returns the sequence without its first n elements. Out-of-range n
// clamps to an empty or full result rather than failing.
func (s Sequence[T]) Skip(n int) Sequence[T] {
	if n <= 0 {
		return wrap(s.items)
	}
	if n >= len(s.items) {
		return wrap[T](nil)
	}
	return wrap(s.items[n:])
}

// Take returns at most the first n elements, clamped like Skip.
func (s Sequence[T]) Take(n int) Sequence[T] {
	if n <= 0 {
		return wrap[T](nil)
	}
	if n >= len(s.items) {
		return wrap(s.items)
	}
	return wrap(s.items[:n])
}

// Where returns the elements satisfying the predicate.
func (s Sequence[T]) Where(pred func(T) bool) Sequence[T] {
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return wrap(out)
}

// Select returns a sequence with the selector applied to every element. For
// projections that change the element type, use the package-level Map.
func (s Sequence[T]) Select(selector func(T) T) Sequence[T] {
	out := make([]T, len(s.items))
	for i, item := range s.items {
		out[i] = selector(item)
	}
	return wrap(out)
}

// matching returns the elements satisfying the optional predicate; with no
// predicate it returns the backing slice itself.
func (s Sequence[T]) matching(preds []func(T) bool) []T {
	if len(preds) == 0 || preds[0] == nil {
		return s.items
	}
	pred := preds[0]
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// First returns the first element matching the optional predicate, or
// errors.ErrEmptyResult when none does.
func (s Sequence[T]) First(pred ...func(T) bool) (T, error) {
	m := s.matching(pred)
	if len(m) == 0 {
		var zero T
		return zero, errors.ErrEmptyResult
	}
	return m[0], nil
}

// FirstOrDefault is First degraded to the zero value instead of an error.
func (s Sequence[T]) FirstOrDefault(pred ...func(T) bool) T {
	v, err := s.First(pred...)
	if err != nil {
		var zero T
		return zero
	}
	return v
}

// Last returns the last element matching the optional predicate, or
// errors.ErrEmptyResult when none does.
func (s Sequence[T]) Last(pred ...func(T) bool) (T, error) {
	m := s.matching(pred)
	if len(m) == 0 {
		var zero T
		return zero, errors.ErrEmptyResult
	}
	return m[len(m)-1], nil
}

// LastOrDefault is Last degraded to the zero value instead of an error.
func (s Sequence[T]) LastOrDefault(pred ...func(T) bool) T {
	v, err := s.Last(pred...)
	if err != nil {
		var zero T
		return zero
	}
	return v
}

// Single asserts that exactly one element matches the optional predicate and
// returns it. Zero matches yield errors.ErrEmptyResult, more than one
// errors.ErrAmbiguousResult.
func (s Sequence[T]) Single(pred ...func(T) bool) (T, error) {
	m := s.matching(pred)
	var zero T
	switch len(m) {
	case 0:
		return zero, errors.ErrEmptyResult
	case 1:
		return m[0], nil
	default:
		return zero, errors.ErrAmbiguousResult
	}
}

// SingleOrDefault returns the zero value for zero or more-than-one matches
// instead of failing.
func (s Sequence[T]) SingleOrDefault(pred ...func(T) bool) T {
	v, err := s.Single(pred...)
	if err != nil {
		var zero T
		return zero
	}
	return v
}

// Any reports whether any element matches the optional predicate; with no
// predicate it reports whether the sequence is non-empty.
func (s Sequence[T]) Any(pred ...func(T) bool) bool {
	if len(pred) == 0 || pred[0] == nil {
		return len(s.items) > 0
	}
	for _, item := range s.items {
		if pred[0](item) {
			return true
		}
	}
	return false
}

// All reports whether every element satisfies the predicate. An empty
// sequence vacuously satisfies any predicate.
func (s Sequence[T]) All(pred func(T) bool) bool {
	for _, item := range s.items {
		if !pred(item) {
			return false
		}
	}
	return true
}

// Count returns the number of elements matching the optional predicate.
func (s Sequence[T]) Count(pred ...func(T) bool) int {
	return len(s.matching(pred))
}
