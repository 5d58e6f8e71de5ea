/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/storagemodels"
)

// Provider is an embedded document store on bbolt: one bucket per collection
// label, records stored as JSON keyed by entity id. Writes go through bbolt
// transactions on every mutation; Save is a no-op.
type Provider struct {
	root string

	mu          sync.RWMutex
	db          *bbolt.DB
	namespace   string
	labels      map[string]struct{}
	initialized bool
}

// New creates a Provider storing its database file under the given directory.
func New(root string) *Provider {
	return &Provider{root: root}
}

// Init opens (or creates) <root>/<namespace>.db and indexes the existing
// buckets.
func (p *Provider) Init(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return errors.NewInitializationError("bolt", namespace, fmt.Errorf("already initialized"))
	}

	if err := os.MkdirAll(p.root, 0o755); err != nil {
		return errors.NewInitializationError("bolt", namespace, err)
	}

	path := filepath.Join(p.root, namespace+".db")
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.NewInitializationError("bolt", namespace, err)
	}

	labels := make(map[string]struct{})
	err = db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			labels[string(name)] = struct{}{}
			return nil
		})
	})
	if err != nil {
		_ = db.Close()
		return errors.NewInitializationError("bolt", namespace, err)
	}

	p.db = db
	p.namespace = namespace
	p.labels = labels
	p.initialized = true
	return nil
}

// Close closes the underlying database. The provider contract does not
// require teardown, but embedders that cycle namespaces should call it.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Save is a no-op: every mutation commits its own transaction.
func (p *Provider) Save(ctx context.Context) error {
	return ctx.Err()
}

// Update upserts a record by id, creating the label's bucket on demand.
func (p *Provider) Update(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := storagemodels.ID(rec)
	if !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.NewSerializationError(label, err)
	}

	err = p.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(label))
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", label, err)
		}
		return bucket.Put([]byte(id), payload)
	})
	if err != nil {
		return fmt.Errorf("bolt: update %q/%q: %w", label, id, err)
	}

	p.mu.Lock()
	p.labels[label] = struct{}{}
	p.mu.Unlock()
	return nil
}

// Delete removes the record matching rec's id; absent buckets and ids are a
// no-op.
func (p *Provider) Delete(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := storagemodels.ID(rec)
	if !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	err := p.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(label))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("bolt: delete %q/%q: %w", label, id, err)
	}
	return nil
}

// FindByID returns the record with the exact id, or nil when absent.
func (p *Provider) FindByID(ctx context.Context, label, id string) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec storagemodels.Record
	err := p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(label))
		if bucket == nil {
			return nil
		}
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &rec); err != nil {
			return errors.NewSerializationError(label, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Find evaluates the predicate over the label's full record set.
func (p *Provider) Find(ctx context.Context, label string, pred provider.Predicate, pickKeys []string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []storagemodels.Record
	err := p.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(label))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var rec storagemodels.Record
			if err := json.Unmarshal(payload, &rec); err != nil {
				return errors.NewSerializationError(label, err)
			}
			if pred == nil || pred(rec) {
				out = append(out, storagemodels.Pick(rec, pickKeys))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// All returns every record under the label in key order.
func (p *Provider) All(ctx context.Context, label string) ([]storagemodels.Record, error) {
	return p.Find(ctx, label, nil, nil)
}

// Collections returns the known labels mapped to their bucket names.
func (p *Provider) Collections() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]any, len(p.labels))
	for label := range p.labels {
		out[label] = label
	}
	return out
}

// AddCollection creates the label's bucket and writes the seed records.
func (p *Provider) AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := p.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(label))
		return err
	})
	if err != nil {
		return fmt.Errorf("bolt: create collection %q: %w", label, err)
	}

	p.mu.Lock()
	p.labels[label] = struct{}{}
	p.mu.Unlock()

	for _, rec := range seed {
		if err := p.Update(ctx, label, rec); err != nil {
			return err
		}
	}
	return nil
}
