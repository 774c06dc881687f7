package memo

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/call_able_go/shared/helper"
)

// table is a bounded memo trie keyed by erased argument packs. It keeps
// two generations of nested sync.Maps: stores go to the live
// generation and lookups consult live then prior. When the live
// generation reaches maxEntries leaves, the prior generation is dropped
// wholesale and the two rotate. Eviction is coarse, but the hot path
// stays lock-free.
//
// All key slices of one table have the same length (the signature's
// arity), so interior nodes and leaves never collide.
type table struct {
	gens       [2]atomic.Pointer[sync.Map]
	live       atomic.Uint32
	size       atomic.Uint32
	maxEntries uint32
	mu         sync.Mutex
}

func newTable(maxEntries uint32) *table {
	t := &table{maxEntries: maxEntries}
	t.gens[0].Store(&sync.Map{})
	t.gens[1].Store(&sync.Map{})
	return t
}

func (t *table) load(keys []any) ([]reflect.Value, bool) {
	live := t.live.Load()
	if out, ok := find(t.gens[live].Load(), keys); ok {
		return out, true
	}
	return find(t.gens[1-live].Load(), keys)
}

func find(m *sync.Map, keys []any) ([]reflect.Value, bool) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := helper.GetTypedValueOf2[*sync.Map](func() (any, bool) {
			return m.Load(k)
		})
		if !ok {
			return nil, false
		}
		m = next
	}
	return helper.GetTypedValueOf2[[]reflect.Value](func() (any, bool) {
		return m.Load(keys[len(keys)-1])
	})
}

func (t *table) store(keys []any, out []reflect.Value) {
	m := t.gens[t.live.Load()].Load()
	for _, k := range keys[:len(keys)-1] {
		v, ok := m.Load(k)
		if !ok {
			v, _ = m.LoadOrStore(k, &sync.Map{})
		}
		m = v.(*sync.Map)
	}
	if _, loaded := m.LoadOrStore(keys[len(keys)-1], out); loaded {
		return
	}
	if t.size.Add(1) >= t.maxEntries {
		t.rotate()
	}
}

// rotate drops the prior generation and makes it the new live one. A
// store that raced the rotation lands in the now-prior generation and
// simply ages out early.
func (t *table) rotate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.size.Load() < t.maxEntries {
		return
	}
	live := t.live.Load()
	t.gens[1-live].Store(&sync.Map{})
	t.live.Store(1 - live)
	t.size.Store(0)
}
