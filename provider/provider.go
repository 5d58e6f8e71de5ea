/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package provider

import (
	"context"

	"github.com/suparena/localstore/storagemodels"
)

// Predicate decides whether a record belongs to a find result. It is always
// evaluated over the full materialized set for the label; providers give no
// partial or streaming evaluation guarantee.
type Predicate func(rec storagemodels.Record) bool

// Provider is the uniform storage contract every backend implements,
// regardless of how it persists data (buffered key-value image, embedded
// document store, directory of files, relational tables).
//
// Init must be called exactly once before any other operation; behavior of
// other methods before Init returns is undefined. Operations are never
// retried internally, and a single call's effect is never partially visible
// to the caller. Absent entities are reported as nil results, never errors.
type Provider interface {
	// Init opens or creates the backend for a namespace. It fails with an
	// errors.InitializationError when the backend cannot be opened.
	Init(ctx context.Context, namespace string) error

	// Save flushes buffered state to durable storage. Backends that write
	// through on every mutation implement it as a no-op.
	Save(ctx context.Context) error

	// Update upserts a record by its id: replace when an entity with the
	// same id exists under the label, insert otherwise. The underlying
	// collection (or table) is created on demand.
	Update(ctx context.Context, label string, rec storagemodels.Record) error

	// Delete removes the entity matching rec's id from the label. Deleting
	// an absent id is a no-op; a record without an id fails with
	// errors.ErrInvalidInput.
	Delete(ctx context.Context, label string, rec storagemodels.Record) error

	// FindByID returns the record with the exact id, or nil when absent.
	FindByID(ctx context.Context, label, id string) (storagemodels.Record, error)

	// Find returns the records satisfying the predicate. When pickKeys is
	// non-empty each result is projected down to exactly those fields,
	// silently skipping keys the source record does not carry.
	Find(ctx context.Context, label string, pred Predicate, pickKeys []string) ([]storagemodels.Record, error)

	// All returns every record under the label; order is backend-defined.
	All(ctx context.Context, label string) ([]storagemodels.Record, error)

	// Collections returns the registry of known labels mapped to a
	// backend-specific handle. Backends with no native collection objects
	// return an empty map.
	Collections() map[string]any

	// AddCollection registers a label, optionally seeding it with initial
	// records. Backends that create collections implicitly on first write
	// implement it as a registration guard.
	AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error
}
