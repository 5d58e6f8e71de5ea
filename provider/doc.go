/*
Package provider defines the storage contract implemented by every backend.

The localstore facade owns exactly one Provider instance per namespace and
funnels all CRUD and query traffic through this interface. Implementations in
the subpackages:

  - provider/kv: buffered provider over an injected key-value handle
  - provider/bolt: bbolt-backed embedded document store
  - provider/dirstore: one JSON file per collection in a directory
  - provider/sqlite: embedded relational store, schema inferred per label

provider/providertest carries the shared contract test suite that all
implementations must pass.
*/
package provider
