/*
Package sqlite implements the storage provider on an embedded relational
engine (modernc.org/sqlite, no cgo).

Each collection label maps to one table, created on demand with a schema
inferred from the first inserted record: strings become TEXT, numbers
INTEGER/REAL, booleans BOOLEAN, and nested values JSON-encoded TEXT. Records
carrying fields the table has not seen extend it with ALTER TABLE ADD
COLUMN. Upserts key on the id primary key; every mutation commits
immediately, so Save is a no-op.
*/
package sqlite
