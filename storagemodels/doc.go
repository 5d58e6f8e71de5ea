/*
Package storagemodels defines the raw data shapes shared between the
localstore facade and its storage providers.

The central type is Record, the plain map representation of a persisted
entity. Providers only ever see Records; typed reconstruction happens in the
facade. The package also carries the well-known field names every entity
shares (id, created, lastModified) and small helpers for identity extraction
and key projection.
*/
package storagemodels
