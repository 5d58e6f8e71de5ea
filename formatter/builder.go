/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package formatter

// Builder accumulates (field, Formatter) pairs and produces an immutable
// Definition. Methods return the receiver to support fluent chaining:
//
//	def := formatter.NewBuilder().
//	    With("email", formatter.Lowercase{}).
//	    With("birthday", formatter.DateTime{}).
//	    Build()
type Builder struct {
	formatters map[string]Formatter
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{formatters: make(map[string]Formatter)}
}

// With registers a formatter for a field, replacing any previous registration
// for the same field.
func (b *Builder) With(field string, f Formatter) *Builder {
	b.formatters[field] = f
	return b
}

// Build produces an immutable Definition. Build is idempotent and
// side-effect-free: the builder can keep accumulating afterwards without
// affecting definitions already built.
func (b *Builder) Build() *Definition {
	snapshot := make(map[string]Formatter, len(b.formatters))
	for field, f := range b.formatters {
		snapshot[field] = f
	}
	return &Definition{formatters: snapshot}
}
