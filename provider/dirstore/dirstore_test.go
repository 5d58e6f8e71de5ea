/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dirstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/provider/providertest"
	"github.com/suparena/localstore/storagemodels"
)

func TestContract(t *testing.T) {
	providertest.Run(t, func(t *testing.T) provider.Provider {
		return New(t.TempDir())
	})
}

func TestLayoutOnDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	p := New(root)
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "app", "users.json")); err != nil {
		t.Fatalf("expected users.json on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "app", "manifest.yaml")); err != nil {
		t.Fatalf("expected manifest.yaml on disk: %v", err)
	}
}

func TestManifestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	p := New(root)
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := p.Update(ctx, "users", storagemodels.Record{"id": "1"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := p.AddCollection(ctx, "tasks", nil); err != nil {
		t.Fatalf("AddCollection failed: %v", err)
	}

	reopened := New(root)
	if err := reopened.Init(ctx, "app"); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	cols := reopened.Collections()
	if _, ok := cols["users"]; !ok {
		t.Fatalf("expected users in reopened manifest, got %v", cols)
	}
	if _, ok := cols["tasks"]; !ok {
		t.Fatalf("expected tasks in reopened manifest, got %v", cols)
	}

	got, err := reopened.FindByID(ctx, "users", "1")
	if err != nil || got == nil {
		t.Fatalf("expected persisted record after reopen, got %v, %v", got, err)
	}
}

func TestCorruptCollectionFile(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	p := New(root)
	if err := p.Init(ctx, "app"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "app", "users.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := p.All(ctx, "users")
	if !errors.IsSerialization(err) {
		t.Fatalf("expected serialization error for corrupt file, got %v", err)
	}
}

func TestCorruptManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "app")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	p := New(root)
	err := p.Init(context.Background(), "app")
	if !errors.IsSerialization(err) {
		t.Fatalf("expected serialization error for corrupt manifest, got %v", err)
	}
}
