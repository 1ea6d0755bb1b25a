package sema

import (
	"wyweb/internal/ast"
	"wyweb/internal/ir"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
)

func (c *checker) pushScope() {
	c.scopes = append(c.scopes, map[string]*ir.Var{})
}

func (c *checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *checker) lookup(name string) (*ir.Var, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// newVar объявляет переменную в текущей области; затенение запрещено во
// всей функции.
func (c *checker) newVar(name string, t types.Type, parent syntax.Item, origin syntax.Item) *ir.Var {
	if _, exists := c.lookup(name); exists {
		c.errorf(origin, "variable %s already declared", name)
	}
	v := &ir.Var{Name: name, Type: t, ID: c.nextID}
	c.nextID++
	c.lowered(v, parent, origin)
	c.scopes[len(c.scopes)-1][name] = v
	if c.fn != nil {
		if _, isParam := origin.(*ast.Param); !isParam {
			c.fn.Locals = append(c.fn.Locals, v)
		}
	}
	return v
}
