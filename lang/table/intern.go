package table

import (
	"github.com/dolthub/swiss"

	"simpl/lang/value"
)

// Interner is the create-or-find string pool: it
// guarantees at most one *value.Object exists per distinct byte content, so
// that string equality and hashing both reduce to pointer identity.
type Interner struct {
	m    *swiss.Map[string, *value.Object]
	head *value.Object // most-recently-allocated object, for GC traversal
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{m: swiss.NewMap[string, *value.Object](64)}
}

// Intern returns the canonical *value.Object for s. The membership check
// happens against the raw bytes of s before anything is allocated: a new
// Object is only created on a genuine miss.
func (in *Interner) Intern(s string) *value.Object {
	if obj, ok := in.m.Get(s); ok {
		return obj
	}
	obj := value.NewString(s)
	obj.Next = in.head
	in.head = obj
	in.m.Put(s, obj)
	return obj
}

// Find returns the canonical object for s if one has already been
// interned. It never allocates: the lookup is against the raw bytes of s,
// so callers can probe for membership without creating the object they
// may be about to intern.
func (in *Interner) Find(s string) (*value.Object, bool) {
	return in.m.Get(s)
}

// Objects returns the head of the intrusive object list, most recently
// allocated first, for a future mark-sweep collector to traverse.
func (in *Interner) Objects() *value.Object {
	return in.head
}

// Count returns the number of distinct strings currently interned.
func (in *Interner) Count() int {
	return in.m.Count()
}
