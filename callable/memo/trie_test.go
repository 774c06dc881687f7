package memo

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func out(n int) []reflect.Value {
	return []reflect.Value{reflect.ValueOf(n)}
}

func TestTable_BasicUsage(t *testing.T) {
	tbl := newTable(8)

	tbl.store([]any{"a", "b", "c"}, out(1))

	got, ok := tbl.load([]any{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, 1, got[0].Interface())

	// wrong leaf
	_, ok = tbl.load([]any{"a", "b", "x"})
	assert.False(t, ok)

	// wrong interior node
	_, ok = tbl.load([]any{"a", "x", "c"})
	assert.False(t, ok)

	// first store wins for a leaf
	tbl.store([]any{"a", "b", "c"}, out(2))
	got, _ = tbl.load([]any{"a", "b", "c"})
	assert.Equal(t, 1, got[0].Interface())
}

func TestTable_MixedKeyTypes(t *testing.T) {
	tbl := newTable(8)
	tbl.store([]any{1, "two", 3.0}, out(6))

	got, ok := tbl.load([]any{1, "two", 3.0})
	assert.True(t, ok)
	assert.Equal(t, 6, got[0].Interface())

	_, ok = tbl.load([]any{1, "two", 3})
	assert.False(t, ok)
}

func TestTable_RotationDropsOldestGeneration(t *testing.T) {
	tbl := newTable(2)

	tbl.store([]any{"a"}, out(1))
	tbl.store([]any{"b"}, out(2)) // fills the live generation, rotates

	// Both survive in the prior generation.
	_, ok := tbl.load([]any{"a"})
	assert.True(t, ok)
	_, ok = tbl.load([]any{"b"})
	assert.True(t, ok)

	tbl.store([]any{"c"}, out(3))
	tbl.store([]any{"d"}, out(4)) // second rotation drops a and b

	_, ok = tbl.load([]any{"a"})
	assert.False(t, ok)
	_, ok = tbl.load([]any{"b"})
	assert.False(t, ok)
	_, ok = tbl.load([]any{"c"})
	assert.True(t, ok)
	_, ok = tbl.load([]any{"d"})
	assert.True(t, ok)
}
