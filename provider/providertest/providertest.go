/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package providertest carries the contract test suite every storage
// provider must pass. Provider packages call Run from their own tests with a
// factory that opens a fresh, empty provider.
package providertest

import (
	"context"
	"testing"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/storagemodels"
)

// Factory opens a fresh, empty provider for one subtest. Providers backed by
// files should root themselves under t.TempDir().
type Factory func(t *testing.T) provider.Provider

// number coerces the numeric representations different backends round-trip
// to (int, int64, float64) into one comparable form.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Run executes the provider contract suite.
func Run(t *testing.T, open Factory) {
	t.Helper()
	ctx := context.Background()

	fresh := func(t *testing.T) provider.Provider {
		t.Helper()
		p := open(t)
		if err := p.Init(ctx, "testns"); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		return p
	}

	t.Run("AllOnUnseenLabel", func(t *testing.T) {
		p := fresh(t)
		recs, err := p.All(ctx, "ghost")
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(recs) != 0 {
			t.Fatalf("expected empty result, got %d records", len(recs))
		}
	})

	t.Run("UpdateInsertsAndFindByID", func(t *testing.T) {
		p := fresh(t)
		rec := storagemodels.Record{"id": "1", "name": "Ada", "age": 25}
		if err := p.Update(ctx, "users", rec); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := p.FindByID(ctx, "users", "1")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected record, got nil")
		}
		if got["name"] != "Ada" {
			t.Fatalf("expected name=Ada, got %v", got["name"])
		}
	})

	t.Run("FindByIDMissingReturnsNil", func(t *testing.T) {
		p := fresh(t)
		got, err := p.FindByID(ctx, "users", "missing")
		if err != nil {
			t.Fatalf("FindByID must not fail for absent ids: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("UpdateUpsertsByID", func(t *testing.T) {
		p := fresh(t)
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada", "age": 25}); err != nil {
			t.Fatalf("first Update failed: %v", err)
		}
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada Lovelace", "age": 26}); err != nil {
			t.Fatalf("second Update failed: %v", err)
		}

		recs, err := p.All(ctx, "users")
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("upsert must keep exactly one record per id, got %d", len(recs))
		}
		if recs[0]["name"] != "Ada Lovelace" {
			t.Fatalf("upsert must keep the latest payload, got %v", recs[0])
		}
	})

	t.Run("UpdateReplacesWholeRecord", func(t *testing.T) {
		p := fresh(t)
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada", "age": 25}); err != nil {
			t.Fatalf("first Update failed: %v", err)
		}
		// The second payload no longer carries age; replace semantics mean
		// the old value must not survive the upsert.
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada"}); err != nil {
			t.Fatalf("second Update failed: %v", err)
		}

		got, err := p.FindByID(ctx, "users", "1")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected record, got nil")
		}
		if _, stale := got["age"]; stale {
			t.Fatalf("upsert must replace the stored record, stale field survived: %v", got)
		}
		if got["name"] != "Ada" {
			t.Fatalf("unexpected record after replace: %v", got)
		}
	})

	t.Run("UpdateWithoutIDFails", func(t *testing.T) {
		p := fresh(t)
		err := p.Update(ctx, "users", storagemodels.Record{"name": "nobody"})
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		p := fresh(t)
		rec := storagemodels.Record{"id": "1", "name": "Ada"}
		if err := p.Update(ctx, "users", rec); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if err := p.Delete(ctx, "users", rec); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		// Deleting the same id again is a no-op, not an error.
		if err := p.Delete(ctx, "users", rec); err != nil {
			t.Fatalf("Delete of absent id must not fail: %v", err)
		}

		recs, err := p.All(ctx, "users")
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(recs) != 0 {
			t.Fatalf("expected empty collection, got %d records", len(recs))
		}
	})

	t.Run("DeleteWithoutIDFails", func(t *testing.T) {
		p := fresh(t)
		err := p.Delete(ctx, "users", storagemodels.Record{"name": "nobody"})
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("FindByPredicate", func(t *testing.T) {
		p := fresh(t)
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "age": 25}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "2", "age": 40}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		matches, err := p.Find(ctx, "users", func(rec storagemodels.Record) bool {
			age, ok := number(rec["age"])
			return ok && age > 30
		}, nil)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected exactly one match, got %d", len(matches))
		}
		if id, _ := storagemodels.ID(matches[0]); id != "2" {
			t.Fatalf("expected id=2, got %v", matches[0])
		}
	})

	t.Run("FindProjectsAndSkipsAbsentKeys", func(t *testing.T) {
		p := fresh(t)
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1", "name": "Ada", "age": 25}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		matches, err := p.Find(ctx, "users", nil, []string{"id", "email"})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one record, got %d", len(matches))
		}
		got := matches[0]
		if got["id"] != "1" {
			t.Fatalf("projection lost the id: %v", got)
		}
		if _, ok := got["email"]; ok {
			t.Fatal("projection must skip keys absent from the source record")
		}
		if _, ok := got["name"]; ok {
			t.Fatal("projection must drop unselected keys")
		}
	})

	t.Run("AddCollectionRegistersLabel", func(t *testing.T) {
		p := fresh(t)
		seed := []storagemodels.Record{{"id": "s1", "name": "seeded"}}
		if err := p.AddCollection(ctx, "prefs", seed); err != nil {
			t.Fatalf("AddCollection failed: %v", err)
		}

		recs, err := p.All(ctx, "prefs")
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("expected seeded record, got %d", len(recs))
		}

		// Registering an existing label must not fail.
		if err := p.AddCollection(ctx, "prefs", nil); err != nil {
			t.Fatalf("re-registering a label must be a guard, got %v", err)
		}
	})

	t.Run("SaveSucceeds", func(t *testing.T) {
		p := fresh(t)
		if err := p.Update(ctx, "users", storagemodels.Record{"id": "1"}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := p.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	})

	t.Run("InitTwiceFails", func(t *testing.T) {
		p := fresh(t)
		if err := p.Init(ctx, "testns"); !errors.IsInitialization(err) {
			t.Fatalf("expected initialization error on second Init, got %v", err)
		}
	})
}
