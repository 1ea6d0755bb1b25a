package ast

// Inspect visits e and its operands depth-first until fn returns false.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch x := e.(type) {
	case *UnaryExpr:
		Inspect(x.X, fn)
	case *BinaryExpr:
		Inspect(x.X, fn)
		Inspect(x.Y, fn)
	case *CallExpr:
		for _, a := range x.Args {
			Inspect(a, fn)
		}
	}
}
