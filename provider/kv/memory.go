/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kv

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is a concurrency-safe in-memory KeyValue handle. It ships as the
// default test double and as the backing for purely ephemeral namespaces.
type Memory struct {
	m *xsync.MapOf[string, string]
}

// NewMemory creates an empty in-memory handle.
func NewMemory() *Memory {
	return &Memory{m: xsync.NewMapOf[string, string]()}
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.m.Load(key)
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.m.Store(key, value)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.m.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.m.Size()
}
