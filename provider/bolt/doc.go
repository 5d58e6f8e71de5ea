/*
Package bolt implements the storage provider on go.etcd.io/bbolt: an
embedded, transactional document store with one bucket per collection label
and JSON-encoded records keyed by entity id.

Each mutation commits its own bbolt transaction, so the provider writes
through and Save is a no-op. Reads iterate buckets in key order.
*/
package bolt
