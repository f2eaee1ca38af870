// Package memory is an in-process relational store: one table per entity,
// each safe for concurrent use. Rows are stored by value.
package memory

import (
	"sort"
	"sync"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

// Row is what a table can hold: an identified record readable by column name.
type Row interface {
	predicate.Record
	Key() string
}

type Table[T Row] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func NewTable[T Row]() *Table[T] {
	return &Table[T]{rows: make(map[string]T)}
}

func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// Put inserts or replaces the row with the same key.
func (t *Table[T]) Put(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[row.Key()] = row
}

// PutUnique stores row like Put unless clash reports a conflict with another
// row already in the table. The check and the write happen under one lock, the
// way a unique index guards an insert.
func (t *Table[T]) PutUnique(row T, clash func(existing T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := row.Key()
	for id, existing := range t.rows {
		if id != key && clash(existing) {
			return false
		}
	}
	t.rows[key] = row
	return true
}

// Delete removes the row and reports whether it existed.
func (t *Table[T]) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	delete(t.rows, id)
	return ok
}

// Select returns the rows matching p ordered by key.
func (t *Table[T]) Select(p predicate.Predicate) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if p.Match(row) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// DeleteWhere removes every matching row and returns the removed keys.
func (t *Table[T]) DeleteWhere(p predicate.Predicate) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []string
	for id, row := range t.rows {
		if p.Match(row) {
			delete(t.rows, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Update applies fn to every matching row.
func (t *Table[T]) Update(p predicate.Predicate, fn func(T) T) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, row := range t.rows {
		if p.Match(row) {
			t.rows[id] = fn(row)
			n++
		}
	}
	return n
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Apply runs fn over a working copy of the rows with the given ids while
// holding the write lock. Missing ids are absent from the copy. The changes fn
// makes to the copy are written back only if it returns nil.
func (t *Table[T]) Apply(ids []string, fn func(rows map[string]T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	work := make(map[string]T, len(ids))
	for _, id := range ids {
		if row, ok := t.rows[id]; ok {
			work[id] = row
		}
	}
	if err := fn(work); err != nil {
		return err
	}
	for id, row := range work {
		t.rows[id] = row
	}
	return nil
}
