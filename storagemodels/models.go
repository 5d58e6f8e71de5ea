/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Well-known record fields shared by every persisted entity.
const (
	FieldID           = "id"
	FieldCreated      = "created"
	FieldLastModified = "lastModified"
)

// Record is the raw storable representation of an entity: a plain map as it
// travels between the facade and a storage provider. Providers persist
// Records; the facade reconstructs typed entities from them.
type Record = map[string]any

// ID extracts the identity field from a record. The second return value is
// false when the field is absent or not a string.
func ID(rec Record) (string, bool) {
	v, ok := rec[FieldID]
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Pick projects a record down to exactly the given keys. Keys not present on
// the source record are skipped rather than injected as nil placeholders,
// keeping the projection minimal and JSON-encodable. A nil or empty key list
// returns the record unchanged.
func Pick(rec Record, keys []string) Record {
	if len(keys) == 0 {
		return rec
	}
	out := make(Record, len(keys))
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of a record. Providers that hand out records
// from an in-memory image clone them so callers cannot mutate stored state.
func Clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
