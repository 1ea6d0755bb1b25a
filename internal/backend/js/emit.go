// Package js lowers typed IR to JavaScript.
//
// Functions become top-level function declarations named module$name (the
// module path with '/' replaced by '$'). Library functions are emitted only
// when the module reaches them. The implicit main runs as an immediately
// invoked function. Preconditions and assertions turn into runtime checks;
// postconditions, loop invariants and assumptions are left to the verifier.
package js

import (
	"fmt"
	"sort"
	"strings"

	"wyweb/internal/ir"
	"wyweb/internal/syntax"
)

// MaxSafeInteger is the largest integer a JavaScript number holds exactly.
const MaxSafeInteger = 1<<53 - 1

// Imports resolves library modules, used to blame nodes that live in them.
type Imports interface {
	Module(path string) (*ir.Module, bool)
}

type bailout struct{ err *syntax.Error }

type Emitter struct {
	mod     *ir.Module
	imports Imports
	buf     strings.Builder

	funcs   []*ir.Func
	seen    map[*ir.Func]bool
	helpers map[string]bool
}

type funcEmitter struct {
	e      *Emitter
	f      *ir.Func
	heap   *syntax.Heap
	names  map[*ir.Var]string
	indent int
}

// Emit renders mod together with the library functions it calls.
func Emit(mod *ir.Module, imports Imports) (out string, err error) {
	if mod == nil {
		return "", nil
	}
	e := &Emitter{
		mod:     mod,
		imports: imports,
		seen:    make(map[*ir.Func]bool),
		helpers: make(map[string]bool),
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			out, err = "", b.err
		}
	}()

	e.collect()
	var body strings.Builder
	for _, f := range e.funcs {
		if f.Main {
			continue
		}
		e.emitFunc(&body, f)
	}
	if mod.Main != nil {
		e.emitMain(&body, mod.Main)
	}

	e.buf.WriteString("\"use strict\";\n")
	e.emitHelpers()
	e.buf.WriteString(body.String())
	return e.buf.String(), nil
}

// collect gathers the module's own functions and every library function
// reachable from them. Library functions come first, ordered by name.
func (e *Emitter) collect() {
	var own []*ir.Func
	var lib []*ir.Func
	var queue []*ir.Func
	visit := func(f *ir.Func) {
		if f == nil || e.seen[f] {
			return
		}
		e.seen[f] = true
		queue = append(queue, f)
		if f.Module == e.mod.Path {
			own = append(own, f)
		} else {
			lib = append(lib, f)
		}
	}
	for _, f := range e.mod.Funcs {
		visit(f)
	}
	visit(e.mod.Main)
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, callee := range callees(f) {
			visit(callee)
		}
	}
	sort.SliceStable(lib, func(i, j int) bool {
		return lib[i].QualifiedName() < lib[j].QualifiedName()
	})
	e.funcs = append(lib, own...)
}

func callees(f *ir.Func) []*ir.Func {
	var out []*ir.Func
	visitExpr := func(x ir.Expr) {
		ir.Walk(x, func(x ir.Expr) bool {
			if c, ok := x.(*ir.Call); ok {
				out = append(out, c.Func)
			}
			return true
		})
	}
	for _, r := range f.Requires {
		visitExpr(r)
	}
	walkStmts(f.Body, visitExpr)
	return out
}

func walkStmts(stmts []ir.Stmt, fn func(ir.Expr)) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ir.Decl:
			fn(s.Init)
		case *ir.Assign:
			fn(s.Value)
		case *ir.Assert:
			fn(s.Cond)
		case *ir.Print:
			fn(s.Value)
		case *ir.Return:
			if s.Value != nil {
				fn(s.Value)
			}
		case *ir.If:
			fn(s.Cond)
			walkStmts(s.Then, fn)
			walkStmts(s.Else, fn)
		case *ir.While:
			fn(s.Cond)
			walkStmts(s.Body, fn)
		case *ir.CallStmt:
			fn(s.Call)
		}
	}
}

// heapOf returns the heap of the module that declares f.
func (e *Emitter) heapOf(f *ir.Func) *syntax.Heap {
	if f.Module == e.mod.Path {
		return e.mod.Heap
	}
	if e.imports != nil {
		if m, ok := e.imports.Module(f.Module); ok {
			return m.Heap
		}
	}
	return nil
}

// Mangle returns the JavaScript name of a function.
func Mangle(module, name string) string {
	return strings.ReplaceAll(module, "/", "$") + "$" + name
}

var helperSource = map[string]string{
	"$div": "function $div(a, b) {\n  if (b === 0) throw new Error(\"division by zero\");\n  return Math.trunc(a / b);\n}\n",
	"$rem": "function $rem(a, b) {\n  if (b === 0) throw new Error(\"division by zero\");\n  return a % b;\n}\n",
}

func (e *Emitter) emitHelpers() {
	names := make([]string, 0, len(e.helpers))
	for name := range e.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e.buf.WriteString(helperSource[name])
	}
}

func (e *Emitter) newFuncEmitter(f *ir.Func) *funcEmitter {
	fe := &funcEmitter{e: e, f: f, heap: e.heapOf(f), names: make(map[*ir.Var]string)}
	for _, v := range f.Params {
		fe.names[v] = localName(v.Name)
	}
	for _, v := range f.Locals {
		fe.names[v] = localName(v.Name)
	}
	return fe
}

func (e *Emitter) emitFunc(b *strings.Builder, f *ir.Func) {
	fe := e.newFuncEmitter(f)
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fe.names[p]
	}
	fmt.Fprintf(b, "function %s(%s) {\n", Mangle(f.Module, f.Name), strings.Join(params, ", "))
	fe.indent = 1
	for _, r := range f.Requires {
		fe.check(b, r, "precondition not satisfied")
	}
	fe.stmts(b, f.Body)
	b.WriteString("}\n")
}

func (e *Emitter) emitMain(b *strings.Builder, f *ir.Func) {
	fe := e.newFuncEmitter(f)
	b.WriteString("(function () {\n")
	fe.indent = 1
	fe.stmts(b, f.Body)
	b.WriteString("})();\n")
}

var reserved = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`arguments await break case catch class const
		continue console debugger default delete do else enum eval export extends
		false finally for function if implements import in instanceof interface
		let Math NaN new null package private protected public return static super
		switch this throw true try typeof undefined var void while with yield Infinity`) {
		reserved[w] = true
	}
}

// localName escapes names that JavaScript reserves or that the emitted code
// uses itself.
func localName(name string) string {
	if reserved[name] {
		return name + "$"
	}
	return name
}
