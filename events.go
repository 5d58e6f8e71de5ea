/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localstore

// Origin identifies the mutation that produced a change event.
type Origin int

const (
	OriginInsert Origin = iota
	OriginUpdate
	OriginDelete
	OriginSave
)

func (o Origin) String() string {
	switch o {
	case OriginInsert:
		return "insert"
	case OriginUpdate:
		return "update"
	case OriginDelete:
		return "delete"
	case OriginSave:
		return "save"
	default:
		return "unknown"
	}
}

// ChangeEvent describes one completed mutation. It is emitted synchronously,
// never for failed operations, and never batched: bulk mutations emit one
// event per affected entity. Item carries the affected entity; save events
// carry none.
type ChangeEvent struct {
	Label  string
	Origin Origin
	Item   any
}
