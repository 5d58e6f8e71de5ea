/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import "testing"

type testPlayer struct {
	ID string `json:"id"`
}

func TestRegisterAndGet(t *testing.T) {
	defer Unregister("players")
	Register[testPlayer]("players")

	fn, ok := GetFactory("players")
	if !ok {
		t.Fatal("expected registered factory")
	}
	if _, ok := fn().(*testPlayer); !ok {
		t.Fatalf("factory should produce *testPlayer, got %T", fn())
	}

	// Each call yields a fresh instance.
	if fn() == fn() {
		t.Fatal("factory must construct fresh instances")
	}
}

func TestGetFactoryMissing(t *testing.T) {
	if _, ok := GetFactory("unknown"); ok {
		t.Fatal("expected no factory for unregistered label")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer Unregister("dup")
	Register[testPlayer]("dup")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register[testPlayer]("dup")
}
