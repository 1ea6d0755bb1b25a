// Package interp evaluates verification-form terms.
//
// Evaluation is three-valued: a term is true, false, or undefined for the
// given inputs (division by zero, a variable outside the environment, an
// arithmetic overflow). Undefined is reported as ErrUndefined.
package interp

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUndefined is returned when a term has no value for the given inputs.
var ErrUndefined = errors.New("undefined")

// Value is an int or a bool.
type Value struct {
	isBool bool
	i      int64
	b      bool
}

func Int(v int64) Value { return Value{i: v} }
func Bool(v bool) Value { return Value{isBool: true, b: v} }

func (v Value) IsBool() bool { return v.isBool }
func (v Value) Int() int64   { return v.i }
func (v Value) Bool() bool   { return v.b }

func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatInt(v.i, 10)
}

// Binding is one variable of an environment.
type Binding struct {
	Name  string
	Value Value
}

// Bindings is an ordered environment.
type Bindings []Binding

// String renders the environment as {x=0, y=-1}.
func (bs Bindings) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, bind := range bs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(bind.Name)
		b.WriteByte('=')
		b.WriteString(bind.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Env maps variable names to values.
type Env map[string]Value

// Env converts the bindings to a lookup map.
func (bs Bindings) Env() Env {
	env := make(Env, len(bs))
	for _, b := range bs {
		env[b.Name] = b.Value
	}
	return env
}
