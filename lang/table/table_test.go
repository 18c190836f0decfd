package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpl/lang/table"
	"simpl/lang/value"
)

func TestTableSetGetDelete(t *testing.T) {
	tb := table.New()
	in := table.NewInterner()
	key := in.Intern("x")

	_, ok := tb.Get(key)
	assert.False(t, ok)

	didInsert := tb.Set(key, value.Number(1))
	assert.True(t, didInsert, "first Set should insert")

	v, ok := tb.Get(key)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)

	didInsert = tb.Set(key, value.Number(2))
	assert.False(t, didInsert, "overwriting an existing key is not an insert")

	v, ok = tb.Get(key)
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)

	assert.True(t, tb.Delete(key))
	_, ok = tb.Get(key)
	assert.False(t, ok)
	assert.False(t, tb.Delete(key), "deleting an absent key reports false")
}

func TestTableAddAll(t *testing.T) {
	in := table.NewInterner()
	a, b := table.New(), table.New()
	kx, ky := in.Intern("x"), in.Intern("y")
	a.Set(kx, value.Number(1))
	b.Set(ky, value.Number(2))

	a.AddAll(b)
	v, ok := a.Get(ky)
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)
	assert.Equal(t, 2, a.Count())
}

func TestInternIdempotent(t *testing.T) {
	in := table.NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	assert.Same(t, a, b, "interning the same content twice returns the same object")
	assert.Equal(t, 1, in.Count())

	c := in.Intern("world")
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, in.Count())
}

func TestInternFindDoesNotAllocate(t *testing.T) {
	in := table.NewInterner()
	_, ok := in.Find("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, in.Count(), "a failed Find must not intern anything")

	obj := in.Intern("present")
	found, ok := in.Find("present")
	require.True(t, ok)
	assert.Same(t, obj, found)
}

func TestInternObjectListTracksAllocationOrder(t *testing.T) {
	in := table.NewInterner()
	first := in.Intern("a")
	second := in.Intern("b")

	// Objects list is prepended on allocation: head is the most recent.
	assert.Same(t, second, in.Objects())
	assert.Same(t, first, in.Objects().Next)
}
