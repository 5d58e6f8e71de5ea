/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dirstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/storagemodels"
)

const manifestName = "manifest.yaml"

// manifest is the on-disk collection registry kept next to the data files.
type manifest struct {
	Namespace   string            `yaml:"namespace"`
	Collections map[string]string `yaml:"collections"`
}

// Provider persists each collection as one JSON file in a namespace
// directory, with a YAML manifest registering the known labels:
//
//	<root>/<namespace>/
//	  manifest.yaml
//	  users.json
//	  tasks.json
//
// Every mutation writes through to disk; Save is a no-op.
type Provider struct {
	root string

	mu          sync.RWMutex
	dir         string
	namespace   string
	labels      map[string]string
	initialized bool
}

// New creates a Provider rooted at the given directory.
func New(root string) *Provider {
	return &Provider{root: root}
}

// Init creates the namespace directory and loads the manifest.
func (p *Provider) Init(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return errors.NewInitializationError("dirstore", namespace, fmt.Errorf("already initialized"))
	}

	dir := filepath.Join(p.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInitializationError("dirstore", namespace, err)
	}

	p.dir = dir
	p.namespace = namespace
	p.labels = make(map[string]string)

	raw, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewInitializationError("dirstore", namespace, err)
	}
	if err == nil {
		var m manifest
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return errors.NewSerializationError("", err)
		}
		for label, file := range m.Collections {
			p.labels[label] = file
		}
	}

	p.initialized = true
	return nil
}

// Save is a no-op: dirstore writes through on every mutation.
func (p *Provider) Save(ctx context.Context) error {
	return ctx.Err()
}

func (p *Provider) labelPath(label string) string {
	return filepath.Join(p.dir, label+".json")
}

// loadLabel reads a collection file. A missing file is an empty collection.
func (p *Provider) loadLabel(label string) ([]storagemodels.Record, error) {
	raw, err := os.ReadFile(p.labelPath(label))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dirstore: failed to read collection %q: %w", label, err)
	}
	var recs []storagemodels.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, errors.NewSerializationError(label, err)
	}
	return recs, nil
}

func (p *Provider) saveLabel(label string, recs []storagemodels.Record) error {
	if recs == nil {
		recs = []storagemodels.Record{}
	}
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.NewSerializationError(label, err)
	}
	if err := os.WriteFile(p.labelPath(label), raw, 0o644); err != nil {
		return fmt.Errorf("dirstore: failed to write collection %q: %w", label, err)
	}
	return p.registerLabel(label)
}

// registerLabel records a label in the manifest; already-known labels are a
// no-op.
func (p *Provider) registerLabel(label string) error {
	if _, known := p.labels[label]; known {
		return nil
	}
	p.labels[label] = label + ".json"

	m := manifest{Namespace: p.namespace, Collections: p.labels}
	raw, err := yaml.Marshal(&m)
	if err != nil {
		return errors.NewSerializationError(label, err)
	}
	if err := os.WriteFile(filepath.Join(p.dir, manifestName), raw, 0o644); err != nil {
		return fmt.Errorf("dirstore: failed to write manifest: %w", err)
	}
	return nil
}

// Update upserts a record by id, creating the collection file on demand.
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

	recs, err := p.loadLabel(label)
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range recs {
		if existingID, _ := storagemodels.ID(existing); existingID == id {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return p.saveLabel(label, recs)
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

	recs, err := p.loadLabel(label)
	if err != nil {
		return err
	}
	for i, existing := range recs {
		if existingID, _ := storagemodels.ID(existing); existingID == id {
			return p.saveLabel(label, append(recs[:i:i], recs[i+1:]...))
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

	recs, err := p.loadLabel(label)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if recID, _ := storagemodels.ID(rec); recID == id {
			return rec, nil
		}
	}
	return nil, nil
}

// Find evaluates the predicate over the label's full record set.
func (p *Provider) Find(ctx context.Context, label string, pred provider.Predicate, pickKeys []string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	recs, err := p.loadLabel(label)
	if err != nil {
		return nil, err
	}
	var out []storagemodels.Record
	for _, rec := range recs {
		if pred == nil || pred(rec) {
			out = append(out, storagemodels.Pick(rec, pickKeys))
		}
	}
	return out, nil
}

// All returns every record under the label in file order.
func (p *Provider) All(ctx context.Context, label string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.loadLabel(label)
}

// Collections returns the manifest registry: label mapped to its file name.
func (p *Provider) Collections() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]any, len(p.labels))
	for label, file := range p.labels {
		out[label] = file
	}
	return out
}

// AddCollection registers a label in the manifest and writes the seed.
func (p *Provider) AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	recs, err := p.loadLabel(label)
	if err == nil {
		err = p.saveLabel(label, recs)
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}

	for _, rec := range seed {
		if err := p.Update(ctx, label, rec); err != nil {
			return err
		}
	}
	return nil
}
