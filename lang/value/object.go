package value

// ObjKind tags the variants of heap-allocated Object. SIMPL currently has
// only strings, but the tag and the intrusive list below exist so a future
// mark-sweep collector has something to traverse.
type ObjKind int

const (
	ObjString ObjKind = iota
)

// Object is a heap-allocated value payload. Objects are linked into a
// single list (Next), rooted at the VM, in the order they were allocated;
// new objects are always prepended so the list reflects allocation order
// from newest to oldest.
type Object struct {
	Kind ObjKind
	Str  string // valid when Kind == ObjString

	Next *Object
}

func (o *Object) String() string {
	switch o.Kind {
	case ObjString:
		return o.Str
	default:
		return "<object>"
	}
}

// NewString allocates a new string Object with the given content. Callers
// outside of lang/table should not call this directly: every string Value
// in the VM must go through the intern table (lang/table) so that string
// equality reduces to pointer identity.
func NewString(s string) *Object {
	return &Object{Kind: ObjString, Str: s}
}
