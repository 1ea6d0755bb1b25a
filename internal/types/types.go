// Package types describes the types of Wy values.
package types

// Kind classifies a type.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindBool
	KindNamed
)

// Type is a resolved Wy type. Int, Bool and Void are singletons; named types
// are compared by module and name.
type Type interface {
	Kind() Kind
	String() string
}

type basic struct {
	kind Kind
	name string
}

func (b *basic) Kind() Kind     { return b.kind }
func (b *basic) String() string { return b.name }

var (
	Void Type = &basic{kind: KindVoid, name: "void"}
	Int  Type = &basic{kind: KindInt, name: "int"}
	Bool Type = &basic{kind: KindBool, name: "bool"}
)

// Named is a user type declared with `type T is (base v) where ...`.
type Named struct {
	Module string
	Name   string
	Base   Type
}

func (n *Named) Kind() Kind { return KindNamed }

func (n *Named) String() string {
	if n.Module == "" {
		return n.Name
	}
	return n.Module + "::" + n.Name
}

// Underlying strips named types down to int or bool.
func Underlying(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok {
			return t
		}
		t = n.Base
	}
}

// Identical reports whether a and b denote the same type.
func Identical(a, b Type) bool {
	na, okA := a.(*Named)
	nb, okB := b.(*Named)
	if okA != okB {
		return false
	}
	if okA {
		return na.Module == nb.Module && na.Name == nb.Name
	}
	return a == b
}

// AssignableTo reports whether a value of type from may be stored in a slot of
// type to. Types with the same underlying type are interchangeable; the
// constraint of a named target is checked during verification.
func AssignableTo(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if Identical(from, to) {
		return true
	}
	uf, ut := Underlying(from), Underlying(to)
	return uf != Void && uf == ut
}

// IsInt reports whether t is int or a type based on int.
func IsInt(t Type) bool { return t != nil && Underlying(t) == Int }

// IsBool reports whether t is bool or a type based on bool.
func IsBool(t Type) bool { return t != nil && Underlying(t) == Bool }
