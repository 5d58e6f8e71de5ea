/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"testing"
	"time"

	"github.com/suparena/localstore/formatter"
	"github.com/suparena/localstore/storagemodels"
)

// Test entity mirroring a typical application model.
type player struct {
	Entity
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Rating   int       `json:"rating,omitempty"`
	Birthday time.Time `json:"birthday,omitempty"`
}

var playerDef = formatter.NewBuilder().
	With("email", formatter.Lowercase{}).
	Build()

func TestEnsureIdentity(t *testing.T) {
	var e Entity
	e.EnsureIdentity()
	if e.ID == "" {
		t.Fatal("expected a generated id")
	}

	first := e.ID
	e.EnsureIdentity()
	if e.ID != first {
		t.Fatal("EnsureIdentity must never replace an existing id")
	}
}

func TestTouch(t *testing.T) {
	var e Entity
	now := NowMillis()
	e.Touch(now)

	if e.Created != now {
		t.Fatalf("expected created=%d, got %d", now, e.Created)
	}
	if e.LastModified != now {
		t.Fatalf("expected lastModified=%d, got %d", now, e.LastModified)
	}

	later := now + 5000
	e.Touch(later)
	if e.Created != now {
		t.Fatal("Touch must not move created after first persistence")
	}
	if e.LastModified != later {
		t.Fatalf("expected lastModified=%d, got %d", later, e.LastModified)
	}
	if e.LastModified < e.Created {
		t.Fatal("invariant violated: lastModified < created")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	p := player{
		Entity: Entity{ID: "p-1", Created: 1000, LastModified: 2000},
		Name:   "Ada",
		Rating: 1850,
	}

	rec, err := Marshal(&p, nil)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if rec["id"] != "p-1" || rec["name"] != "Ada" {
		t.Fatalf("unexpected record: %v", rec)
	}

	var back player
	if err := Unmarshal(rec, &back, nil); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.ID != p.ID || back.Name != p.Name || back.Rating != p.Rating {
		t.Fatalf("round trip mismatch: %+v != %+v", back, p)
	}
	if back.Created != p.Created || back.LastModified != p.LastModified {
		t.Fatalf("timestamps lost in round trip: %+v", back)
	}
}

func TestMarshalAppliesFormatters(t *testing.T) {
	p := player{Entity: Entity{ID: "p-2"}, Email: "Ada.Lovelace@Example.COM"}

	rec, err := Marshal(&p, playerDef)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if rec["email"] != "ada.lovelace@example.com" {
		t.Fatalf("formatter not applied on Marshal: %v", rec["email"])
	}

	var back player
	if err := Unmarshal(rec, &back, playerDef); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Email != "ada.lovelace@example.com" {
		t.Fatalf("formatter not applied on Unmarshal: %v", back.Email)
	}
}

func TestUnmarshalPartialRecord(t *testing.T) {
	p := player{
		Entity: Entity{ID: "p-3", Created: 100, LastModified: 100},
		Name:   "Grace",
		Rating: 2100,
	}

	// A partial record updates only the fields it carries.
	partial := storagemodels.Record{"rating": 2200}
	if err := Unmarshal(partial, &p, nil); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Rating != 2200 {
		t.Fatalf("expected rating update, got %d", p.Rating)
	}
	if p.Name != "Grace" || p.ID != "p-3" {
		t.Fatalf("absent fields must stay untouched: %+v", p)
	}
}

func TestUnmarshalDoesNotMutateRecord(t *testing.T) {
	rec := storagemodels.Record{"id": "p-4", "email": "MIXED@Case.Org"}

	var p player
	if err := Unmarshal(rec, &p, playerDef); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if rec["email"] != "MIXED@Case.Org" {
		t.Fatal("Unmarshal must not mutate the caller's record")
	}
}

// recordedPlayer exercises the capability interfaces.
type recordedPlayer struct {
	ID   string
	Name string
}

func (r *recordedPlayer) ToRecord() (storagemodels.Record, error) {
	return storagemodels.Record{"id": r.ID, "name": r.Name, "custom": true}, nil
}

func (r *recordedPlayer) FromRecord(rec storagemodels.Record) error {
	if id, ok := rec["id"].(string); ok {
		r.ID = id
	}
	if name, ok := rec["name"].(string); ok {
		r.Name = name
	}
	return nil
}

func TestCapabilityInterfaces(t *testing.T) {
	rp := &recordedPlayer{ID: "r-1", Name: "Linus"}

	rec, err := Marshal(rp, nil)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if rec["custom"] != true {
		t.Fatal("Marshal should defer to Serializable when implemented")
	}

	var back recordedPlayer
	if err := Unmarshal(rec, &back, nil); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.ID != "r-1" || back.Name != "Linus" {
		t.Fatalf("Deserializable not honored: %+v", back)
	}
}
