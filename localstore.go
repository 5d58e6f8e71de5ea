/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localstore

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/VictoriaMetrics/metrics"

	"github.com/suparena/localstore/entity"
	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/formatter"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/registry"
	"github.com/suparena/localstore/sequence"
	"github.com/suparena/localstore/storagemodels"
)

// stamper is satisfied by types embedding entity.Entity; the facade uses it
// to write identity and timestamps back into the caller's instance.
type stamper interface {
	EnsureIdentity()
	Touch(nowMillis int64)
}

// definable lets an entity type carry its own formatter definition.
type definable interface {
	EntityDefinition() *formatter.Definition
}

// Store is the facade applications talk to. It owns exactly one provider
// instance and a namespace, dispatches CRUD and query operations to the
// provider, reconstructs typed entities from raw records, and emits change
// notifications.
type Store struct {
	provider  provider.Provider
	namespace string
	logger    *slog.Logger
	now       func() int64

	// OnChange is a single-slot synchronous observer invoked after each
	// successful mutating operation. Assigning a new listener replaces any
	// previous one; it is never invoked for failed operations and never
	// batched.
	OnChange func(ChangeEvent)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded bulk reads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the millisecond clock used to stamp entities. Intended
// for tests that need deterministic timestamps.
func WithClock(now func() int64) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store over the given provider and namespace. The provider
// handle is exclusively owned by this Store; it must not be shared.
func New(p provider.Provider, namespace string, opts ...Option) *Store {
	s := &Store{
		provider:  p,
		namespace: namespace,
		logger:    slog.Default(),
		now:       entity.NowMillis,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns the namespace this store was created for.
func (s *Store) Namespace() string {
	return s.namespace
}

// Init opens the provider for this store's namespace. It must complete
// before any other operation is issued.
func (s *Store) Init(ctx context.Context) error {
	return s.provider.Init(ctx, s.namespace)
}

// Save flushes buffered provider state and emits a save event.
func (s *Store) Save(ctx context.Context) error {
	if err := s.provider.Save(ctx); err != nil {
		return err
	}
	s.emit(ChangeEvent{Label: "", Origin: OriginSave})
	return nil
}

// Collections exposes the provider's collection registry.
func (s *Store) Collections() map[string]any {
	return s.provider.Collections()
}

// AddCollection registers a label with the provider, optionally seeding it.
func (s *Store) AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error {
	return s.provider.AddCollection(ctx, label, seed)
}

// emit invokes the OnChange observer, if any, and counts the operation.
func (s *Store) emit(ev ChangeEvent) {
	metrics.GetOrCreateCounter(fmt.Sprintf(
		`localstore_mutations_total{origin=%q,namespace=%q}`,
		ev.Origin.String(), s.namespace)).Inc()
	if s.OnChange != nil {
		s.OnChange(ev)
	}
}

// definitionOf returns the formatter definition an entity carries, if any.
func definitionOf(item any) *formatter.Definition {
	if d, ok := item.(definable); ok {
		return d.EntityDefinition()
	}
	return nil
}

// checkItem rejects nil items, including typed nil pointers, which would
// otherwise reach the stamping hooks with a nil receiver.
func checkItem(item any) error {
	if item == nil {
		return errors.NewValidationError("", "item is nil")
	}
	switch rv := reflect.ValueOf(item); rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return errors.NewValidationError("", "item is nil")
		}
	}
	return nil
}

// prepare stamps identity and timestamps on the item and produces its
// storable record. Items embedding entity.Entity are stamped in place so the
// caller sees the generated id; plain values are stamped on the record.
func (s *Store) prepare(item any) (storagemodels.Record, error) {
	if err := checkItem(item); err != nil {
		return nil, err
	}
	now := s.now()
	if st, ok := item.(stamper); ok {
		st.EnsureIdentity()
		st.Touch(now)
	}

	rec, err := toRecord(item)
	if err != nil {
		return nil, err
	}

	if _, ok := storagemodels.ID(rec); !ok {
		rec[storagemodels.FieldID] = entity.NewID()
	}
	if _, ok := rec[storagemodels.FieldCreated]; !ok {
		rec[storagemodels.FieldCreated] = now
	}
	rec[storagemodels.FieldLastModified] = now
	return rec, nil
}

// toRecord converts an item to its storable record. Records pass through
// untouched (cloned, so stamping cannot leak into caller state).
func toRecord(item any) (storagemodels.Record, error) {
	if err := checkItem(item); err != nil {
		return nil, err
	}
	if rec, ok := item.(storagemodels.Record); ok {
		return storagemodels.Clone(rec), nil
	}
	return entity.Marshal(item, definitionOf(item))
}

// Insert persists a new item under the label via the provider's upsert and
// emits an insert event unless silent is set.
func (s *Store) Insert(ctx context.Context, label string, item any, silent bool) error {
	rec, err := s.prepare(item)
	if err != nil {
		return err
	}
	if err := s.provider.Update(ctx, label, rec); err != nil {
		return err
	}
	if !silent {
		s.emit(ChangeEvent{Label: label, Origin: OriginInsert, Item: item})
	}
	return nil
}

// Update upserts an item under the label, refreshing lastModified, and emits
// an update event.
func (s *Store) Update(ctx context.Context, label string, item any) error {
	rec, err := s.prepare(item)
	if err != nil {
		return err
	}
	if err := s.provider.Update(ctx, label, rec); err != nil {
		return err
	}
	s.emit(ChangeEvent{Label: label, Origin: OriginUpdate, Item: item})
	return nil
}

// UpdateAll loads every record under the label, applies mutate to each one
// satisfying pred, and persists the mutated records one by one. It is not
// atomic: a failure partway through leaves earlier updates durable. Returns
// the number of records updated.
func (s *Store) UpdateAll(ctx context.Context, label string, pred provider.Predicate, mutate func(storagemodels.Record)) (int, error) {
	recs, err := s.provider.All(ctx, label)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, rec := range recs {
		if pred != nil && !pred(rec) {
			continue
		}
		mutate(rec)
		rec[storagemodels.FieldLastModified] = s.now()
		if err := s.provider.Update(ctx, label, rec); err != nil {
			return updated, err
		}
		updated++
		s.emit(ChangeEvent{Label: label, Origin: OriginUpdate, Item: rec})
	}
	return updated, nil
}

// Delete removes the item (matched by id) from the label and emits a delete
// event. Deleting an absent id is a no-op that still emits.
func (s *Store) Delete(ctx context.Context, label string, item any) error {
	rec, err := toRecord(item)
	if err != nil {
		return err
	}
	if _, ok := storagemodels.ID(rec); !ok {
		return errors.NewValidationError(storagemodels.FieldID, "cannot delete an item without an id")
	}
	if err := s.provider.Delete(ctx, label, rec); err != nil {
		return err
	}
	s.emit(ChangeEvent{Label: label, Origin: OriginDelete, Item: item})
	return nil
}

// DeleteItems deletes exactly the given items, each by its id, emitting one
// delete event per item.
func (s *Store) DeleteItems(ctx context.Context, label string, items []any) (int, error) {
	deleted := 0
	for _, item := range items {
		if err := s.Delete(ctx, label, item); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// DeleteMany loads every record under the label and deletes the ones
// satisfying pred, emitting one delete event per deleted record. Like
// UpdateAll it proceeds sequentially and is not atomic.
func (s *Store) DeleteMany(ctx context.Context, label string, pred provider.Predicate) (int, error) {
	recs, err := s.provider.All(ctx, label)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, rec := range recs {
		if pred != nil && !pred(rec) {
			continue
		}
		if err := s.provider.Delete(ctx, label, rec); err != nil {
			return deleted, err
		}
		deleted++
		s.emit(ChangeEvent{Label: label, Origin: OriginDelete, Item: rec})
	}
	return deleted, nil
}

// reconstruct turns a raw record into a typed entity when a factory is
// registered for the label; otherwise the raw record passes through.
func (s *Store) reconstruct(label string, rec storagemodels.Record) (any, error) {
	factory, ok := registry.GetFactory(label)
	if !ok {
		return rec, nil
	}
	inst := factory()
	if err := entity.Unmarshal(rec, inst, definitionOf(inst)); err != nil {
		return nil, err
	}
	return inst, nil
}

// FindByID returns the entity with the exact id, reconstructed when the
// label has a registered factory, or nil when absent.
func (s *Store) FindByID(ctx context.Context, label, id string) (any, error) {
	rec, err := s.provider.FindByID(ctx, label, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return s.reconstruct(label, rec)
}

// Find returns the entities satisfying pred as a queryable sequence. With
// pickKeys the results are projections: plain records, never reconstructed,
// since a partial record cannot round-trip through an entity's lifecycle.
func (s *Store) Find(ctx context.Context, label string, pred provider.Predicate, pickKeys ...string) (sequence.Sequence[any], error) {
	recs, err := s.provider.Find(ctx, label, pred, pickKeys)
	if err != nil {
		return sequence.Of[any](), err
	}
	if len(pickKeys) > 0 {
		out := make([]any, len(recs))
		for i, rec := range recs {
			out[i] = rec
		}
		return sequence.New(out), nil
	}
	return s.wrapRecords(label, recs), nil
}

// All returns every entity under the label as a queryable sequence.
// Per-record reconstruction failures are degraded to a logged warning with
// the offending record skipped, so one corrupt item cannot hide the rest of
// the collection.
func (s *Store) All(ctx context.Context, label string) (sequence.Sequence[any], error) {
	recs, err := s.provider.All(ctx, label)
	if err != nil {
		return sequence.Of[any](), err
	}
	return s.wrapRecords(label, recs), nil
}

func (s *Store) wrapRecords(label string, recs []storagemodels.Record) sequence.Sequence[any] {
	out := make([]any, 0, len(recs))
	for _, rec := range recs {
		item, err := s.reconstruct(label, rec)
		if err != nil {
			id, _ := storagemodels.ID(rec)
			s.logger.Warn("skipping unparseable record",
				"namespace", s.namespace, "label", label, "id", id, "error", err)
			metrics.GetOrCreateCounter(fmt.Sprintf(
				`localstore_parse_skips_total{namespace=%q,label=%q}`,
				s.namespace, label)).Inc()
			continue
		}
		out = append(out, item)
	}
	return sequence.New(out)
}
