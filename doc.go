/*
Package localstore is an embedded, offline-first persistence library for Go
applications.

Entities embed entity.Entity to gain an identity and creation/modification
timestamps, records move through a per-field formatter pipeline on the way to
and from storage, and queries come back as in-memory sequences with
LINQ-style operators. All persistence goes through a single provider
interface with interchangeable backends: in-memory key/value, JSON
directories, bbolt, and SQLite.

Typical usage:

	p := sqlite.New(dataDir)
	store := localstore.New(p, "myapp")
	if err := store.Init(ctx); err != nil {
	    ...
	}

	players := localstore.NewCollection(store, "players", func() *Player {
	    return &Player{}
	})
	err := players.Insert(ctx, &Player{Name: "Ada"}, false)
*/
package localstore
