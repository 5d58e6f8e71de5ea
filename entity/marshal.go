/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"encoding/json"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/formatter"
	"github.com/suparena/localstore/storagemodels"
)

// Marshal produces the plain storable representation of an entity. The value
// is flattened through its JSON encoding, then every field with a registered
// formatter is run through Format. Formatters therefore operate on
// JSON-level values (strings, float64 numbers, bools, nested maps/slices).
//
// For any field without a custom formatter, Marshal and Unmarshal are
// symmetric: Unmarshal(Marshal(e)) reconstructs an equivalent entity.
func Marshal(v any, def *formatter.Definition) (storagemodels.Record, error) {
	if s, ok := v.(Serializable); ok {
		return s.ToRecord()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewSerializationError("", err)
	}
	var rec storagemodels.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.NewSerializationError("", err)
	}

	for _, field := range def.Fields() {
		if value, ok := rec[field]; ok {
			rec[field] = def.Format(field, value)
		}
	}
	return rec, nil
}

// Unmarshal populates an entity from its storable representation. Every field
// with a registered formatter is run through Parse first, then the record is
// decoded into v through its JSON encoding. Fields absent from the record are
// left untouched, which supports partial updates without clobbering existing
// values.
func Unmarshal(rec storagemodels.Record, v any, def *formatter.Definition) error {
	if d, ok := v.(Deserializable); ok {
		return d.FromRecord(rec)
	}

	parsed := rec
	if fields := def.Fields(); len(fields) > 0 {
		parsed = storagemodels.Clone(rec)
		for _, field := range fields {
			if value, ok := parsed[field]; ok {
				parsed[field] = def.Parse(field, value)
			}
		}
	}

	raw, err := json.Marshal(parsed)
	if err != nil {
		return errors.NewSerializationError("", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewSerializationError("", err)
	}
	return nil
}
