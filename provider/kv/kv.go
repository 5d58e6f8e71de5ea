/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/storagemodels"
)

// KeyValue is the storage handle a Provider persists into. It is always
// injected explicitly (constructor parameter, never a process-wide
// singleton), so tests can swap in an in-memory fake and embedders can back
// it with whatever durable key-value surface they have.
type KeyValue interface {
	// Get returns the value stored under key. The second return value is
	// false when the key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// Provider is a buffered storage provider over a KeyValue handle. Mutations
// hit an in-memory image of the namespace; Save serializes the whole image
// as one JSON document under the namespace key. Init loads and parses the
// previously saved image.
type Provider struct {
	handle KeyValue

	mu          sync.RWMutex
	namespace   string
	collections map[string][]storagemodels.Record
	order       []string
	initialized bool
}

// New creates a Provider persisting into the given handle.
func New(handle KeyValue) *Provider {
	return &Provider{handle: handle}
}

// Init loads the namespace image from the handle. A missing key starts an
// empty namespace; a corrupt payload fails with a SerializationError.
func (p *Provider) Init(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return errors.NewInitializationError("kv", namespace, fmt.Errorf("already initialized"))
	}

	raw, ok, err := p.handle.Get(namespace)
	if err != nil {
		return errors.NewInitializationError("kv", namespace, err)
	}

	p.namespace = namespace
	p.collections = make(map[string][]storagemodels.Record)
	p.order = nil

	if ok && raw != "" {
		var snapshot map[string][]storagemodels.Record
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			return errors.NewSerializationError("", err)
		}
		for label, recs := range snapshot {
			p.collections[label] = recs
			p.order = append(p.order, label)
		}
	}

	p.initialized = true
	return nil
}

// Save flushes the in-memory image into the handle as one JSON document.
func (p *Provider) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	raw, err := json.Marshal(p.collections)
	namespace := p.namespace
	p.mu.RUnlock()

	if err != nil {
		return errors.NewSerializationError("", err)
	}
	if err := p.handle.Set(namespace, string(raw)); err != nil {
		return fmt.Errorf("kv: failed to persist namespace %q: %w", namespace, err)
	}
	return nil
}

// Update upserts a record by id, creating the collection on first write.
func (p *Provider) Update(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := storagemodels.ID(rec)
	if !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	recs, exists := p.collections[label]
	if !exists {
		p.order = append(p.order, label)
	}
	stored := storagemodels.Clone(rec)
	for i, existing := range recs {
		if existingID, _ := storagemodels.ID(existing); existingID == id {
			recs[i] = stored
			p.collections[label] = recs
			return nil
		}
	}
	p.collections[label] = append(recs, stored)
	return nil
}

// Delete removes the record matching rec's id; absent ids are a no-op.
func (p *Provider) Delete(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := storagemodels.ID(rec)
	if !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	recs := p.collections[label]
	for i, existing := range recs {
		if existingID, _ := storagemodels.ID(existing); existingID == id {
			p.collections[label] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return nil
}

// FindByID returns the record with the exact id, or nil when absent.
func (p *Provider) FindByID(ctx context.Context, label, id string) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, rec := range p.collections[label] {
		if recID, _ := storagemodels.ID(rec); recID == id {
			return storagemodels.Clone(rec), nil
		}
	}
	return nil, nil
}

// Find evaluates the predicate over the label's full record set, projecting
// matches down to pickKeys when given.
func (p *Provider) Find(ctx context.Context, label string, pred provider.Predicate, pickKeys []string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []storagemodels.Record
	for _, rec := range p.collections[label] {
		// The predicate sees a clone so it cannot mutate the stored image.
		c := storagemodels.Clone(rec)
		if pred == nil || pred(c) {
			out = append(out, storagemodels.Pick(c, pickKeys))
		}
	}
	return out, nil
}

// All returns every record under the label in insertion order.
func (p *Provider) All(ctx context.Context, label string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	recs := p.collections[label]
	out := make([]storagemodels.Record, len(recs))
	for i, rec := range recs {
		out[i] = storagemodels.Clone(rec)
	}
	return out, nil
}

// Collections returns the known labels mapped to their current record count.
func (p *Provider) Collections() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]any, len(p.order))
	for _, label := range p.order {
		out[label] = len(p.collections[label])
	}
	return out
}

// AddCollection registers a label, optionally seeding it. Registering an
// existing label only appends the seed records.
func (p *Provider) AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	if _, exists := p.collections[label]; !exists {
		p.collections[label] = nil
		p.order = append(p.order, label)
	}
	p.mu.Unlock()

	for _, rec := range seed {
		if err := p.Update(ctx, label, rec); err != nil {
			return err
		}
	}
	return nil
}
