// Package sema resolves names and types of a parsed Wy file and lowers it to
// the typed IR.
//
// The first semantic error stops the check. It blames the offending AST node
// and carries the file heap, so the location is found by walking the heap.
package sema

import (
	"wyweb/internal/ast"
	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

// Imports resolves module paths to already checked modules.
type Imports interface {
	Module(path string) (*ir.Module, bool)
}

// ImportMap is an Imports backed by a map.
type ImportMap map[string]*ir.Module

func (m ImportMap) Module(path string) (*ir.Module, bool) {
	mod, ok := m[path]
	return mod, ok
}

type bailout struct{ err *syntax.Error }

type checker struct {
	file    *ast.File
	heap    *syntax.Heap
	mod     *ir.Module
	imports Imports
	aliases map[string]*ir.Module
	types   map[string]*ir.TypeDecl
	funcs   map[string]*ir.Func
	decls   map[*ir.Func]*ast.FuncDecl

	// состояние текущей функции
	fn     *ir.Func
	scopes []map[string]*ir.Var
	nextID int
}

// Check lowers f into the module path. Imported modules are resolved
// through imports.
func Check(f *ast.File, path string, imports Imports) (mod *ir.Module, err error) {
	c := &checker{
		file:    f,
		heap:    syntax.NewHeap(f.Heap),
		imports: imports,
		aliases: make(map[string]*ir.Module),
		types:   make(map[string]*ir.TypeDecl),
		funcs:   make(map[string]*ir.Func),
		decls:   make(map[*ir.Func]*ast.FuncDecl),
	}
	c.mod = &ir.Module{Path: path, Heap: c.heap}
	c.heap.Add(c.mod, nil)
	c.heap.SetOrigin(c.mod, f)

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			mod, err = nil, b.err
		}
	}()

	c.checkImports()
	c.declareTypes()
	c.declareFuncs()
	for _, fn := range c.mod.Funcs {
		c.checkBody(fn, c.decls[fn])
	}
	if len(f.Main.Body.Stmts) > 0 {
		c.mod.Main = c.declareFunc(f.Main)
		c.checkBody(c.mod.Main, f.Main)
	}
	return c.mod, nil
}

// errorf blames an AST node and aborts the check.
func (c *checker) errorf(node syntax.Item, format string, args ...any) {
	panic(bailout{err: syntax.Errorf(node, c.file.Heap, format, args...)})
}

// lowered registers an IR node derived from origin.
func (c *checker) lowered(node, parent, origin syntax.Item) {
	c.heap.Add(node, parent)
	if origin != nil {
		c.heap.SetOrigin(node, origin)
	}
}

func (c *checker) checkImports() {
	for _, imp := range c.file.Imports {
		path := imp.ModulePath()
		if path == c.mod.Path {
			c.errorf(imp, "module %s imports itself", path)
		}
		var mod *ir.Module
		ok := false
		if c.imports != nil {
			mod, ok = c.imports.Module(path)
		}
		if !ok {
			c.errorf(imp, "unknown module %s", path)
		}
		if prev, dup := c.aliases[imp.Alias()]; dup && prev != mod {
			c.errorf(imp, "import name %s already used", imp.Alias())
		}
		c.aliases[imp.Alias()] = mod
		c.mod.Imports = append(c.mod.Imports, path)
	}
}

func (c *checker) declareTypes() {
	for _, td := range c.file.Types {
		if _, dup := c.types[td.Name]; dup || isBuiltinType(td.Name) {
			c.errorf(td, "type %s already declared", td.Name)
		}
		base := c.resolveType(td.Base)
		named := &types.Named{Module: c.mod.Path, Name: td.Name, Base: base}
		decl := &ir.TypeDecl{Type: named}
		c.lowered(decl, c.mod, td)

		// ограничение проверяется над базовым типом переменной
		c.beginFunc(nil)
		decl.Var = c.newVar(td.Var, base, decl, td)
		if td.Where != nil {
			decl.Where = c.checkCond(td.Where, decl, modeContract)
		}
		c.endFunc()

		c.types[td.Name] = decl
		c.mod.Types = append(c.mod.Types, decl)
	}
}

func isBuiltinType(name string) bool {
	return name == "int" || name == "bool"
}

func (c *checker) resolveType(te *ast.TypeExpr) types.Type {
	if te.Qualifier != "" {
		mod, ok := c.aliases[te.Qualifier]
		if !ok {
			c.errorf(te, "unknown module %s", te.Qualifier)
		}
		decl := mod.Type(te.Name)
		if decl == nil {
			c.errorf(te, "unknown type %s", te)
		}
		return decl.Type
	}
	switch te.Name {
	case "int":
		return types.Int
	case "bool":
		return types.Bool
	}
	if decl, ok := c.types[te.Name]; ok {
		return decl.Type
	}
	// неквалифицированное имя из импортов, если однозначно
	var found *ir.TypeDecl
	for _, path := range c.mod.Imports {
		mod, _ := c.imports.Module(path)
		if decl := mod.Type(te.Name); decl != nil {
			if found != nil && found != decl {
				c.errorf(te, "type %s is ambiguous", te.Name)
			}
			found = decl
		}
	}
	if found == nil {
		c.errorf(te, "unknown type %s", te.Name)
	}
	return found.Type
}

func (c *checker) declareFuncs() {
	for _, fd := range c.file.Funcs {
		if _, dup := c.funcs[fd.Name]; dup {
			c.errorf(fd, "function %s already declared", fd.Name)
		}
		fn := c.declareFunc(fd)
		c.funcs[fd.Name] = fn
		c.mod.Funcs = append(c.mod.Funcs, fn)
	}
}

func (c *checker) declareFunc(fd *ast.FuncDecl) *ir.Func {
	fn := &ir.Func{Module: c.mod.Path, Name: fd.Name, Result: types.Void, Main: fd.Implicit}
	c.lowered(fn, c.mod, fd)
	c.decls[fn] = fd
	if fd.Result != nil {
		fn.Result = c.resolveType(fd.Result)
	}
	c.beginFunc(fn)
	for _, p := range fd.Params {
		fn.Params = append(fn.Params, c.newVar(p.Name, c.resolveType(p.Type), fn, p))
	}
	c.endFunc()
	return fn
}

func (c *checker) checkBody(fn *ir.Func, fd *ast.FuncDecl) {
	c.beginFunc(fn)
	defer c.endFunc()
	c.nextID = len(fn.Params)
	for _, p := range fn.Params {
		c.scopes[0][p.Name] = p
	}
	for _, e := range fd.Requires {
		fn.Requires = append(fn.Requires, c.checkCond(e, fn, modeContract))
	}
	for _, e := range fd.Ensures {
		fn.Ensures = append(fn.Ensures, c.checkCond(e, fn, modeEnsures))
	}
	fn.Body = c.checkBlock(fd.Body, fn)
	if fn.Result != types.Void && !terminates(fn.Body) {
		c.errorf(fd, "missing return statement in function %s", fn.Name)
	}
}

func (c *checker) beginFunc(fn *ir.Func) {
	c.fn = fn
	c.scopes = []map[string]*ir.Var{{}}
	c.nextID = 0
}

func (c *checker) endFunc() {
	c.fn = nil
	c.scopes = nil
}
