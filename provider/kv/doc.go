/*
Package kv implements the storage provider over an injected key-value handle.

The provider buffers the whole namespace in memory: mutations are applied to
the in-memory image and Save serializes the image as a single JSON document
under the namespace key. This mirrors storage surfaces that only offer
string-to-string persistence.

The KeyValue handle is constructor-injected rather than discovered globally;
NewMemory provides a concurrency-safe in-memory implementation for tests and
ephemeral namespaces.
*/
package kv
