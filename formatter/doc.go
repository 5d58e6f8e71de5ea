/*
Package formatter provides per-field transformation hooks applied when
entities are serialized to and deserialized from storage.

A Formatter is a bidirectional pair: Format turns an in-memory value into its
storable representation, Parse turns the storable representation back. Fields
without an explicit formatter use the Identity transform. Formatters are
collected per entity type into an immutable Definition via the fluent
Builder.

Formatters may normalize (case-fold, truncate) rather than round-trip
exactly, but Parse(Format(v)) must always be idempotent.
*/
package formatter
