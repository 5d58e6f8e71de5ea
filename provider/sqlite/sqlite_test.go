/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"testing"

	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/provider/providertest"
	"github.com/suparena/localstore/storagemodels"
)

func TestContract(t *testing.T) {
	providertest.Run(t, func(t *testing.T) provider.Provider {
		p := New(t.TempDir())
		t.Cleanup(func() { _ = p.Close() })
		return p
	})
}

func TestSchemaInference(t *testing.T) {
	ctx := context.Background()
	p := New(t.TempDir())
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer p.Close()

	rec := storagemodels.Record{
		"id":     "1",
		"name":   "Ada",
		"age":    36,
		"active": true,
		"tags":   []any{"math", "engines"},
	}
	if err := p.Update(ctx, "users", rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := p.FindByID(ctx, "users", "1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got["name"] != "Ada" {
		t.Fatalf("TEXT column mangled: %v", got["name"])
	}
	if got["age"] != int64(36) {
		t.Fatalf("INTEGER column mangled: %T %v", got["age"], got["age"])
	}
	if got["active"] != true {
		t.Fatalf("BOOLEAN column mangled: %T %v", got["active"], got["active"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "math" {
		t.Fatalf("JSON column mangled: %T %v", got["tags"], got["tags"])
	}
}

func TestLateColumnsViaAlterTable(t *testing.T) {
	ctx := context.Background()
	p := New(t.TempDir())
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer p.Close()

	if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	// A later record introduces an unseen field.
	if err := p.Update(ctx, "users", storagemodels.Record{"id": "2", "name": "Grace", "rank": 1.5}); err != nil {
		t.Fatalf("Update with new field failed: %v", err)
	}

	got, err := p.FindByID(ctx, "users", "2")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got["rank"] != 1.5 {
		t.Fatalf("expected REAL column added, got %T %v", got["rank"], got["rank"])
	}

	// The earlier record has no value in the new column; the field must be
	// absent, not nil.
	first, err := p.FindByID(ctx, "users", "1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if _, present := first["rank"]; present {
		t.Fatalf("NULL columns must be dropped from records: %v", first)
	}
}

func TestSchemaSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	p := New(root)
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	rec := storagemodels.Record{"id": "1", "name": "Ada", "active": true}
	if err := p.Update(ctx, "users", rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := New(root)
	if err := reopened.Init(ctx, "app"); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.FindByID(ctx, "users", "1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got == nil || got["name"] != "Ada" {
		t.Fatalf("expected persisted record, got %v", got)
	}
	// Declared column types carry the boolean kind across reopen.
	if got["active"] != true {
		t.Fatalf("BOOLEAN kind lost on reopen: %T %v", got["active"], got["active"])
	}
}
