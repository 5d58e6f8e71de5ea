/*
Package entity defines the base attributes and lifecycle shared by all
persisted objects: identity, creation and modification timestamps, and the
Marshal/Unmarshal pipeline that moves entities in and out of their plain
storable representation.

Concrete entity types embed Entity and may attach a formatter.Definition to
transform individual fields during Marshal/Unmarshal. Types that need full
control implement Serializable and/or Deserializable instead; the pipeline
probes these capability interfaces before falling back to the default
JSON-based path.
*/
package entity
