// Package value implements SIMPL's tagged dynamic value and its single heap
// object variant, the interned string.
package value

import "strconv"

// Type tags the four cases a Value can hold.
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union over Nil, Bool, Number and Object. It is small
// enough to copy by value; only Object payloads are reference types, and
// those are always interned (see ObjString), so copying a Value never
// duplicates heap state.
type Value struct {
	typ    Type
	b      bool
	n      float64
	object *Object
}

// Nil is the singular nil value.
var Nil = Value{typ: TypeNil}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{typ: TypeNumber, n: n} }

// FromObject wraps a heap object (currently only ObjString objects).
func FromObject(o *Object) Value { return Value{typ: TypeObject, object: o} }

func (v Value) Type() Type     { return v.typ }
func (v Value) IsNil() bool    { return v.typ == TypeNil }
func (v Value) IsBool() bool   { return v.typ == TypeBool }
func (v Value) IsNumber() bool { return v.typ == TypeNumber }
func (v Value) IsObject() bool { return v.typ == TypeObject }

func (v Value) AsBool() bool      { return v.b }
func (v Value) AsNumber() float64 { return v.n }
func (v Value) AsObject() *Object { return v.object }

// IsString reports whether v holds a string object.
func (v Value) IsString() bool {
	return v.typ == TypeObject && v.object != nil && v.object.Kind == ObjString
}

// AsString returns the Go string backing a string Value. Only valid when
// IsString() is true.
func (v Value) AsString() string { return v.object.Str }

// IsFalsey implements SIMPL truthiness: only nil and false are falsey,
// everything else (including 0 and the empty string) is truthy.
func (v Value) IsFalsey() bool {
	return v.typ == TypeNil || (v.typ == TypeBool && !v.b)
}

// Equal implements Value equality: same tag required;
// nil equals nil; numbers compare by IEEE equality; booleans by value;
// objects by pointer identity, which is sound for strings because all
// string Values are produced through interning (lang/table).
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNil:
		return true
	case TypeBool:
		return a.b == b.b
	case TypeNumber:
		return a.n == b.n
	case TypeObject:
		return a.object == b.object
	default:
		return false
	}
}

// String renders v the way PRINT and the disassembler display it.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.b {
			return "true"
		}
		return "false"
	case TypeNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case TypeObject:
		return v.object.String()
	default:
		return "<invalid value>"
	}
}
