package driver

import (
	"errors"

	"go.uber.org/zap"

	"wyweb/internal/artifact"
	"wyweb/internal/diag"
	"wyweb/internal/interp"
	"wyweb/internal/syntax"
	"wyweb/internal/types"
	"wyweb/internal/vform"
)

const (
	NoCounterexample      = "no counterexample available"
	CounterexampleApology = "Unable to find counterexample"
)

func (c *Compiler) wantsCounterexample(d diag.Diagnostic) bool {
	_, ok := d.Item.(*vform.Assert)
	return ok
}

// counterexample searches the small world for bindings that falsify the
// failed assertion. It never fails: errors and panics become fixed texts.
func (c *Compiler) counterexample(p *artifact.Project, item syntax.Item) (text string) {
	defer func() {
		if r := recover(); r != nil {
			c.cfg.Logger.Warn("counterexample search panicked", zap.Any("panic", r))
			text = CounterexampleApology
		}
	}()
	a, ok := item.(*vform.Assert)
	if !ok {
		return NoCounterexample
	}
	in := interp.New(c.types(p, a.Module), interp.SmallWorld{Max: c.cfg.SmallWorld})
	bs, err := in.Counterexample(a, c.cfg.CounterexampleLimit)
	switch {
	case err == nil:
		return bs.String()
	case errors.Is(err, interp.ErrNoCounterexample), errors.Is(err, interp.ErrUndefined):
		return NoCounterexample
	default:
		c.cfg.Logger.Debug("counterexample search failed", zap.String("assert", a.Name), zap.Error(err))
		return CounterexampleApology
	}
}

// ProjectTypes resolves named types through the verification artifact of
// one module, which lists every type its assertions mention.
type ProjectTypes struct {
	Root   artifact.Root
	Module string
}

func projectTypes(root artifact.Root, module string) interp.TypeResolver {
	return ProjectTypes{Root: root, Module: module}
}

func (t ProjectTypes) TypeDecl(n *types.Named) (*vform.TypeDecl, bool) {
	f, err := artifact.Lookup[*vform.File](t.Root, artifact.ID(t.Module), artifact.Verification)
	if err != nil {
		return nil, false
	}
	return f.TypeDecl(n)
}
