/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localstore

import (
	"context"

	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/registry"
	"github.com/suparena/localstore/sequence"
	"github.com/suparena/localstore/storagemodels"
)

// Collection is a typed handle over one label of a Store. It registers the
// factory for its label so untyped reads through the Store reconstruct the
// same entity type, and narrows the facade's any-typed surface to T.
type Collection[T any] struct {
	store   *Store
	label   string
	factory func() T
}

// NewCollection binds a label to an entity type. The factory must return a
// pointer to a fresh zero-value entity. Registration panics when the label
// already has a factory, so each label is bound at most once per process.
func NewCollection[T any](store *Store, label string, factory func() T) *Collection[T] {
	if _, ok := registry.GetFactory(label); !ok {
		registry.RegisterFactory(label, func() any { return factory() })
	}
	return &Collection[T]{store: store, label: label, factory: factory}
}

// Label returns the collection label this handle is bound to.
func (c *Collection[T]) Label() string {
	return c.label
}

// Insert persists a new entity. silent suppresses the change event.
func (c *Collection[T]) Insert(ctx context.Context, item T, silent bool) error {
	return c.store.Insert(ctx, c.label, item, silent)
}

// Update upserts the entity by its id.
func (c *Collection[T]) Update(ctx context.Context, item T) error {
	return c.store.Update(ctx, c.label, item)
}

// Delete removes the entity matched by its id.
func (c *Collection[T]) Delete(ctx context.Context, item T) error {
	return c.store.Delete(ctx, c.label, item)
}

// UpdateAll mutates every stored record satisfying pred and persists the
// results. See Store.UpdateAll for the atomicity caveat.
func (c *Collection[T]) UpdateAll(ctx context.Context, pred provider.Predicate, mutate func(storagemodels.Record)) (int, error) {
	return c.store.UpdateAll(ctx, c.label, pred, mutate)
}

// DeleteMany deletes every stored record satisfying pred and returns the
// number removed.
func (c *Collection[T]) DeleteMany(ctx context.Context, pred provider.Predicate) (int, error) {
	return c.store.DeleteMany(ctx, c.label, pred)
}

// DeleteItems deletes exactly the given entities, each by its id.
func (c *Collection[T]) DeleteItems(ctx context.Context, items []T) (int, error) {
	untyped := make([]any, len(items))
	for i, item := range items {
		untyped[i] = item
	}
	return c.store.DeleteItems(ctx, c.label, untyped)
}

// FindByID returns the entity with the exact id. The second return value is
// false when the id is absent.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	item, err := c.store.FindByID(ctx, c.label, id)
	if err != nil || item == nil {
		return zero, false, err
	}
	typed, ok := item.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

// Find returns the entities satisfying pred as a typed sequence. Records
// whose reconstructed type is not T are dropped; this happens only when the
// label's registry binding disagrees with the handle's type parameter.
func (c *Collection[T]) Find(ctx context.Context, pred provider.Predicate) (sequence.Sequence[T], error) {
	seq, err := c.store.Find(ctx, c.label, pred)
	if err != nil {
		return sequence.Of[T](), err
	}
	return narrow[T](seq), nil
}

// All returns every entity in the collection as a typed sequence.
func (c *Collection[T]) All(ctx context.Context) (sequence.Sequence[T], error) {
	seq, err := c.store.All(ctx, c.label)
	if err != nil {
		return sequence.Of[T](), err
	}
	return narrow[T](seq), nil
}

// At returns the entity at index i of the collection's current snapshot. The
// bool is false when i is out of range. Snapshot order is the provider's.
func (c *Collection[T]) At(ctx context.Context, i int) (T, bool, error) {
	all, err := c.All(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	item, ok := all.At(i)
	return item, ok, nil
}

// ToSlice returns every entity in the collection as a plain slice.
func (c *Collection[T]) ToSlice(ctx context.Context) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return all.ToSlice(), nil
}

func narrow[T any](seq sequence.Sequence[any]) sequence.Sequence[T] {
	items := seq.ToSlice()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if typed, ok := item.(T); ok {
			out = append(out, typed)
		}
	}
	return sequence.New(out)
}
