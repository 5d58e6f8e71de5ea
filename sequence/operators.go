/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sequence

import (
	"cmp"
	"slices"
)

// Type-changing and constraint-bound operators live at package level: Go
// methods cannot introduce additional type parameters.

// Map projects every element through the selector, producing a sequence of a
// possibly different element type.
func Map[T, U any](s Sequence[T], selector func(T) U) Sequence[U] {
	out := make([]U, len(s.items))
	for i, item := range s.items {
		out[i] = selector(item)
	}
	return wrap(out)
}

// OrderBy sorts ascending by the key selector. The sort is stable and runs on
// a private copy of the backing slice, so equal-keyed elements keep their
// relative order and the source sequence is untouched.
func OrderBy[T any, K cmp.Ordered](s Sequence[T], key func(T) K) Sequence[T] {
	out := s.ToSlice()
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
	return wrap(out)
}

// OrderByDescending sorts descending by the key selector, with the same
// stability and copying guarantees as OrderBy.
func OrderByDescending[T any, K cmp.Ordered](s Sequence[T], key func(T) K) Sequence[T] {
	out := s.ToSlice()
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	})
	return wrap(out)
}

// Group is one key's sub-sequence produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items Sequence[T]
}

// GroupBy partitions the sequence by the key selector. Groups appear in
// first-seen key order; within a group, elements keep their source order.
func GroupBy[T any, K comparable](s Sequence[T], key func(T) K) []Group[K, T] {
	index := make(map[K]int, len(s.items))
	buckets := make([][]T, 0)
	order := make([]K, 0)

	for _, item := range s.items {
		k := key(item)
		i, seen := index[k]
		if !seen {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, nil)
			order = append(order, k)
		}
		buckets[i] = append(buckets[i], item)
	}

	groups := make([]Group[K, T], len(order))
	for i, k := range order {
		groups[i] = Group[K, T]{Key: k, Items: wrap(buckets[i])}
	}
	return groups
}

// Distinct removes duplicate elements, keeping the first occurrence.
// Uniqueness is Go's == on the element type: structural for value types,
// reference identity for pointer types. Two deep-equal values behind distinct
// pointers are therefore NOT duplicates.
func Distinct[T comparable](s Sequence[T]) Sequence[T] {
	seen := make(map[T]struct{}, len(s.items))
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return wrap(out)
}
