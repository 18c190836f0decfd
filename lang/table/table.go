// Package table implements the string-keyed hash map used for the VM's
// globals, keyed by interned string identity, plus the Interner used to
// canonicalize string objects. Both are backed by github.com/dolthub/swiss.
package table

import (
	"github.com/dolthub/swiss"

	"simpl/lang/value"
)

// StringKey is the key type for Table: an interned string object's pointer,
// so that map lookups compare identity, never content (content comparison
// already happened once, in the Interner, at intern time).
type StringKey = *value.Object

// Table is a hash map from StringKey to Value, used for the VM's globals
// table. No ordering guarantee is made over its contents.
type Table struct {
	m *swiss.Map[StringKey, value.Value]
}

// New returns an empty Table.
func New() *Table {
	return &Table{m: swiss.NewMap[StringKey, value.Value](8)}
}

// Set stores val under key, reporting whether key was newly inserted (as
// opposed to overwriting an existing entry). lang/vm's SET_GLOBAL opcode
// relies on this return value to detect assignment to an undefined global.
func (t *Table) Set(key StringKey, val value.Value) (didInsert bool) {
	_, existed := t.m.Get(key)
	t.m.Put(key, val)
	return !existed
}

// Get looks up key.
func (t *Table) Get(key StringKey) (value.Value, bool) {
	return t.m.Get(key)
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key StringKey) bool {
	return t.m.Delete(key)
}

// Count returns the number of entries currently stored.
func (t *Table) Count() int {
	return t.m.Count()
}

// AddAll copies every entry of other into t, overwriting any existing keys.
func (t *Table) AddAll(other *Table) {
	other.m.Iter(func(k StringKey, v value.Value) bool {
		t.m.Put(k, v)
		return false
	})
}
