/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package formatter

// Formatter transforms a single entity field between its in-memory value and
// its storable representation. Format produces the storable form, Parse
// restores the in-memory form. Implementations must be pure functions with no
// shared state across calls, and Parse(Format(v)) must be idempotent:
// applying Parse twice yields the same result as applying it once.
type Formatter interface {
	Format(value any) any
	Parse(value any) any
}

// Identity is the default formatter: both directions pass the value through
// unchanged. Every field without an explicit formatter uses it.
type Identity struct{}

func (Identity) Format(value any) any { return value }

func (Identity) Parse(value any) any { return value }

// Definition is an immutable per-field formatter table consumed by the entity
// marshaling pipeline. A nil *Definition is valid and means "identity for
// every field".
type Definition struct {
	formatters map[string]Formatter
}

// Formatter returns the formatter registered for a field, or Identity when
// none is registered.
func (d *Definition) Formatter(field string) Formatter {
	if d == nil {
		return Identity{}
	}
	if f, ok := d.formatters[field]; ok && f != nil {
		return f
	}
	return Identity{}
}

// Format applies the field's formatter in the storing direction.
func (d *Definition) Format(field string, value any) any {
	return d.Formatter(field).Format(value)
}

// Parse applies the field's formatter in the loading direction.
func (d *Definition) Parse(field string, value any) any {
	return d.Formatter(field).Parse(value)
}

// Fields returns the names of all fields with an explicit formatter.
func (d *Definition) Fields() []string {
	if d == nil {
		return nil
	}
	fields := make([]string, 0, len(d.formatters))
	for f := range d.formatters {
		fields = append(fields, f)
	}
	return fields
}
