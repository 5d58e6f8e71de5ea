/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/suparena/localstore/storagemodels"
)

// Entity carries the base attributes shared by every persisted object.
// Concrete entity types embed it:
//
//	type Player struct {
//	    entity.Entity
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	}
//
// ID is immutable after creation. Created is fixed at first persistence,
// LastModified is refreshed on every successful update, and
// LastModified >= Created always holds. Both are milliseconds since epoch.
type Entity struct {
	ID           string `json:"id,omitempty"`
	Created      int64  `json:"created,omitempty"`
	LastModified int64  `json:"lastModified,omitempty"`
}

// Serializable is implemented by entities that produce their own storable
// representation instead of the default Marshal pipeline.
type Serializable interface {
	ToRecord() (storagemodels.Record, error)
}

// Deserializable is implemented by entities that populate themselves from a
// storable representation instead of the default Unmarshal pipeline. Fields
// absent from the record must be left untouched so partial records do not
// clobber existing values.
type Deserializable interface {
	FromRecord(rec storagemodels.Record) error
}

// NewID returns a random, collision-resistant identifier.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time in milliseconds since epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// EnsureIdentity assigns a generated ID when none is set. It never replaces
// an existing ID.
func (e *Entity) EnsureIdentity() {
	if e.ID == "" {
		e.ID = NewID()
	}
}

// Touch refreshes LastModified and fixes Created on first persistence.
func (e *Entity) Touch(nowMillis int64) {
	if e.Created == 0 {
		e.Created = nowMillis
	}
	e.LastModified = nowMillis
	if e.LastModified < e.Created {
		e.LastModified = e.Created
	}
}
