// Package memory is an in-process implementation of the repository
// contracts. It mirrors the parts of the Mongo behaviour
// the services depend on: not-found and duplicate sentinels, sort orders
// and filters. Service, seed, worker and router tests run against it.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/jobboard/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type table[T any] struct {
	mu   sync.RWMutex
	rows map[primitive.ObjectID]T
	id   func(*T) primitive.ObjectID
	// clone copies nested slices so callers never alias stored rows
	clone func(T) T
	less  func(a, b *T) bool
	// unique returns the keys that must not collide across rows
	unique func(*T) []string
}

func newTable[T any](id func(*T) primitive.ObjectID, less func(a, b *T) bool) *table[T] {
	return &table[T]{
		rows:  map[primitive.ObjectID]T{},
		id:    id,
		clone: func(v T) T { return v },
		less:  less,
	}
}

func (t *table[T]) conflicts(doc *T) bool {
	if t.unique == nil {
		return false
	}
	self := t.id(doc)
	want := map[string]bool{}
	for _, k := range t.unique(doc) {
		want[k] = true
	}
	for id, row := range t.rows {
		if id == self {
			continue
		}
		for _, k := range t.unique(&row) {
			if want[k] {
				return true
			}
		}
	}
	return false
}

func (t *table[T]) insert(doc *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.id(doc)
	if _, ok := t.rows[id]; ok || t.conflicts(doc) {
		return utils.ErrDuplicate
	}
	t.rows[id] = t.clone(*doc)
	return nil
}

func (t *table[T]) replace(doc *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.id(doc)
	if _, ok := t.rows[id]; !ok {
		return utils.ErrNotFound
	}
	if t.conflicts(doc) {
		return utils.ErrDuplicate
	}
	t.rows[id] = t.clone(*doc)
	return nil
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	out := t.clone(row)
	return &out, nil
}

func (t *table[T]) first(match func(*T) bool) (*T, error) {
	all := t.filter(match)
	if len(all) == 0 {
		return nil, utils.ErrNotFound
	}
	return &all[0], nil
}

// mutate applies fn to the stored row under the write lock.
func (t *table[T]) mutate(id primitive.ObjectID, fn func(*T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	row = t.clone(row)
	if err := fn(&row); err != nil {
		return err
	}
	t.rows[id] = row
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) filter(match func(*T) bool) []T {
	t.mu.RLock()
	out := []T{}
	for _, row := range t.rows {
		if match == nil || match(&row) {
			out = append(out, t.clone(row))
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return t.less(&out[i], &out[j]) })
	return out
}

func (t *table[T]) byIDs(ids []primitive.ObjectID) []T {
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return t.filter(func(row *T) bool { return want[t.id(row)] })
}

func eqID(want *primitive.ObjectID, got *primitive.ObjectID) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func newer(a, b time.Time) bool { return a.After(b) }
