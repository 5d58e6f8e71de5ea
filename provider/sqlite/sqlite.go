/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/suparena/localstore/errors"
	"github.com/suparena/localstore/provider"
	"github.com/suparena/localstore/storagemodels"
)

// Column kinds. SQLite accepts arbitrary declared type names, which lets the
// schema remember whether a column holds a boolean or a JSON document.
const (
	kindText    = "TEXT"
	kindInteger = "INTEGER"
	kindReal    = "REAL"
	kindBoolean = "BOOLEAN"
	kindJSON    = "JSON"
)

type column struct {
	name string
	kind string
}

type table struct {
	columns []column
}

func (t *table) has(name string) bool {
	for _, c := range t.columns {
		if c.name == name {
			return true
		}
	}
	return false
}

func (t *table) kind(name string) string {
	for _, c := range t.columns {
		if c.name == name {
			return c.kind
		}
	}
	return kindText
}

// Provider is an embedded relational store: one table per collection label,
// created on demand with columns inferred from the first inserted record.
// Records seen later with unknown keys extend the table via ALTER TABLE.
// Every mutation writes through; Save is a no-op.
type Provider struct {
	root string

	mu          sync.Mutex
	db          *sql.DB
	namespace   string
	tables      map[string]*table
	initialized bool
}

// New creates a Provider storing its database file under the given directory.
func New(root string) *Provider {
	return &Provider{root: root}
}

// Init opens (or creates) <root>/<namespace>.db and indexes existing tables.
func (p *Provider) Init(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return errors.NewInitializationError("sqlite", namespace, fmt.Errorf("already initialized"))
	}

	if err := os.MkdirAll(p.root, 0o755); err != nil {
		return errors.NewInitializationError("sqlite", namespace, err)
	}

	path := filepath.Join(p.root, namespace+".db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.NewInitializationError("sqlite", namespace, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.NewInitializationError("sqlite", namespace, err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under interleaved operations.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return errors.NewInitializationError("sqlite", namespace, err)
		}
	}

	tables, err := loadSchema(ctx, db)
	if err != nil {
		_ = db.Close()
		return errors.NewInitializationError("sqlite", namespace, err)
	}

	p.db = db
	p.namespace = namespace
	p.tables = tables
	p.initialized = true
	return nil
}

// loadSchema indexes existing tables and their declared column types.
func loadSchema(ctx context.Context, db *sql.DB) (map[string]*table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make(map[string]*table, len(names))
	for _, name := range names {
		info, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
		if err != nil {
			return nil, err
		}
		t := &table{}
		for info.Next() {
			var (
				cid      int
				col      string
				declType string
				notNull  int
				dflt     sql.NullString
				pk       int
			)
			if err := info.Scan(&cid, &col, &declType, &notNull, &dflt, &pk); err != nil {
				_ = info.Close()
				return nil, err
			}
			t.columns = append(t.columns, column{name: col, kind: strings.ToUpper(declType)})
		}
		if err := info.Close(); err != nil {
			return nil, err
		}
		tables[name] = t
	}
	return tables, nil
}

// Close closes the database handle.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Save is a no-op: every mutation commits immediately.
func (p *Provider) Save(ctx context.Context) error {
	return ctx.Err()
}

// inferKind maps a record value to a declared column type.
func inferKind(v any) string {
	switch v.(type) {
	case string:
		return kindText
	case bool:
		return kindBoolean
	case float32, float64:
		return kindReal
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInteger
	default:
		// Nested maps/slices and nil land in a JSON column, which can
		// hold any later value shape.
		return kindJSON
	}
}

// encode converts a record value to its driver representation for a column.
func encode(kind string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case kindJSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case kindBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
		return v, nil
	default:
		return v, nil
	}
}

// decode converts a scanned driver value back to its record representation.
func decode(kind string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch kind {
	case kindJSON:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, err
		}
		return out, nil
	case kindBoolean:
		switch n := v.(type) {
		case int64:
			return n != 0, nil
		case bool:
			return n, nil
		}
		return v, nil
	default:
		return v, nil
	}
}

// sortedFields returns the record's field names with id first, the rest
// alphabetical, so inferred schemas are deterministic.
func sortedFields(rec storagemodels.Record) []string {
	fields := make([]string, 0, len(rec))
	for f := range rec {
		if f != storagemodels.FieldID {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return append([]string{storagemodels.FieldID}, fields...)
}

// ensureTable creates the label's table on first write (schema inferred from
// the record) and extends it with ALTER TABLE when the record carries unseen
// fields. Caller holds p.mu.
func (p *Provider) ensureTable(ctx context.Context, label string, rec storagemodels.Record) (*table, error) {
	t, exists := p.tables[label]
	if !exists {
		t = &table{}
		var defs []string
		for _, f := range sortedFields(rec) {
			kind := inferKind(rec[f])
			if f == storagemodels.FieldID {
				kind = kindText
				defs = append(defs, fmt.Sprintf("%q TEXT PRIMARY KEY", f))
			} else {
				defs = append(defs, fmt.Sprintf("%q %s", f, kind))
			}
			t.columns = append(t.columns, column{name: f, kind: kind})
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", label, strings.Join(defs, ", "))
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("sqlite: create table %q: %w", label, err)
		}
		p.tables[label] = t
		return t, nil
	}

	for _, f := range sortedFields(rec) {
		if t.has(f) {
			continue
		}
		kind := inferKind(rec[f])
		stmt := fmt.Sprintf("ALTER TABLE %q ADD COLUMN %q %s", label, f, kind)
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("sqlite: add column %q.%q: %w", label, f, err)
		}
		t.columns = append(t.columns, column{name: f, kind: kind})
	}
	return t, nil
}

// Update upserts a record by id, creating or extending the label's table on
// demand.
func (p *Provider) Update(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := storagemodels.ID(rec); !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.ensureTable(ctx, label, rec)
	if err != nil {
		return err
	}

	var (
		cols         []string
		placeholders []string
		updates      []string
		args         []any
	)
	for _, c := range t.columns {
		v, ok := rec[c.name]
		if !ok {
			// Upsert replaces the whole row: columns the new payload does
			// not carry are nulled so stale values cannot survive.
			if c.name != storagemodels.FieldID {
				updates = append(updates, fmt.Sprintf("%q = NULL", c.name))
			}
			continue
		}
		encoded, err := encode(c.kind, v)
		if err != nil {
			return errors.NewSerializationError(label, err)
		}
		cols = append(cols, fmt.Sprintf("%q", c.name))
		placeholders = append(placeholders, "?")
		args = append(args, encoded)
		if c.name != storagemodels.FieldID {
			updates = append(updates, fmt.Sprintf("%q = excluded.%q", c.name, c.name))
		}
	}

	stmt := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		label, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if len(updates) > 0 {
		stmt += fmt.Sprintf(" ON CONFLICT(%q) DO UPDATE SET %s",
			storagemodels.FieldID, strings.Join(updates, ", "))
	} else {
		stmt += fmt.Sprintf(" ON CONFLICT(%q) DO NOTHING", storagemodels.FieldID)
	}

	if _, err := p.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqlite: upsert into %q: %w", label, err)
	}
	return nil
}

// Delete removes the record matching rec's id; unseen labels and absent ids
// are a no-op.
func (p *Provider) Delete(ctx context.Context, label string, rec storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := storagemodels.ID(rec)
	if !ok {
		return errors.NewValidationError(storagemodels.FieldID, "record has no id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.tables[label]; !exists {
		return nil
	}
	stmt := fmt.Sprintf("DELETE FROM %q WHERE %q = ?", label, storagemodels.FieldID)
	if _, err := p.db.ExecContext(ctx, stmt, id); err != nil {
		return fmt.Errorf("sqlite: delete from %q: %w", label, err)
	}
	return nil
}

// scan converts the current row into a record, dropping NULL columns so
// absent fields stay absent.
func (t *table) scan(rows *sql.Rows, label string) (storagemodels.Record, error) {
	values := make([]any, len(t.columns))
	ptrs := make([]any, len(t.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(storagemodels.Record, len(t.columns))
	for i, c := range t.columns {
		decoded, err := decode(c.kind, values[i])
		if err != nil {
			return nil, errors.NewSerializationError(label, err)
		}
		if decoded == nil {
			continue
		}
		rec[c.name] = decoded
	}
	return rec, nil
}

func (t *table) selectList() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = fmt.Sprintf("%q", c.name)
	}
	return strings.Join(cols, ", ")
}

// FindByID returns the record with the exact id, or nil when absent.
func (p *Provider) FindByID(ctx context.Context, label, id string) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t, exists := p.tables[label]
	if !exists {
		return nil, nil
	}

	stmt := fmt.Sprintf("SELECT %s FROM %q WHERE %q = ?",
		t.selectList(), label, storagemodels.FieldID)
	rows, err := p.db.QueryContext(ctx, stmt, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select from %q: %w", label, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := t.scan(rows, label)
	if err != nil {
		return nil, err
	}
	return rec, rows.Err()
}

// Find materializes the label's full record set and evaluates the predicate
// over it.
func (p *Provider) Find(ctx context.Context, label string, pred provider.Predicate, pickKeys []string) ([]storagemodels.Record, error) {
	recs, err := p.All(ctx, label)
	if err != nil {
		return nil, err
	}
	var out []storagemodels.Record
	for _, rec := range recs {
		if pred == nil || pred(rec) {
			out = append(out, storagemodels.Pick(rec, pickKeys))
		}
	}
	return out, nil
}

// All returns every record under the label in rowid order.
func (p *Provider) All(ctx context.Context, label string) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t, exists := p.tables[label]
	if !exists {
		return nil, nil
	}

	stmt := fmt.Sprintf("SELECT %s FROM %q", t.selectList(), label)
	rows, err := p.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select from %q: %w", label, err)
	}
	defer rows.Close()

	var out []storagemodels.Record
	for rows.Next() {
		rec, err := t.scan(rows, label)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Collections returns the known labels mapped to their table names.
func (p *Provider) Collections() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]any, len(p.tables))
	for label := range p.tables {
		out[label] = label
	}
	return out
}

// AddCollection creates the label's table. Without seed records the schema
// starts as just the id column and grows via ALTER TABLE on later writes.
func (p *Provider) AddCollection(ctx context.Context, label string, seed []storagemodels.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	if _, exists := p.tables[label]; !exists {
		base := storagemodels.Record{storagemodels.FieldID: ""}
		if len(seed) > 0 {
			base = seed[0]
		}
		if _, err := p.ensureTable(ctx, label, base); err != nil {
			p.mu.Unlock()
			return err
		}
	}
	p.mu.Unlock()

	for _, rec := range seed {
		if err := p.Update(ctx, label, rec); err != nil {
			return err
		}
	}
	return nil
}
