package driver

import (
	"context"

	"wyweb/internal/artifact"
	"wyweb/internal/backend/js"
	"wyweb/internal/buildpipeline"
	"wyweb/internal/ir"
	"wyweb/internal/parser"
	"wyweb/internal/prover"
	"wyweb/internal/sema"
	"wyweb/internal/source"
	"wyweb/internal/vcgen"
	"wyweb/internal/vform"
)

// Rules assembles the rule set of one request: compile and emit-js always,
// vcgen and prove when verifying.
func (c *Compiler) Rules(opts Options) *buildpipeline.RuleSet {
	rs := buildpipeline.NewRuleSet()
	rs.MustAdd(&buildpipeline.Rule{
		Name:   "compile",
		Stage:  buildpipeline.StageCompile,
		Input:  artifact.All(artifact.Source),
		Output: artifact.TypedIR,
		Run:    buildpipeline.Adapt(c.compile),
	})
	rs.MustAdd(&buildpipeline.Rule{
		Name:   "emit-js",
		Stage:  buildpipeline.StageEmit,
		Input:  artifact.All(artifact.TypedIR),
		Output: artifact.JavaScript,
		Run:    buildpipeline.Adapt(emitJS),
	})
	if !opts.Verify {
		return rs
	}
	rs.MustAdd(&buildpipeline.Rule{
		Name:   "vcgen",
		Stage:  buildpipeline.StageVCGen,
		Input:  artifact.All(artifact.TypedIR),
		Output: artifact.Verification,
		Run:    buildpipeline.Adapt(generate),
	})
	rs.MustAdd(&buildpipeline.Rule{
		Name:   "prove",
		Stage:  buildpipeline.StageProve,
		Input:  artifact.All(artifact.Verification),
		Output: artifact.Proof,
		Run:    buildpipeline.Adapt(c.prove),
	})
	return rs
}

func (c *Compiler) filename(id artifact.ID) string {
	if id == c.cfg.Module {
		return c.cfg.Filename
	}
	return string(id) + "." + artifact.Source.Suffix
}

func (c *Compiler) compile(ctx context.Context, p *artifact.Project, id artifact.ID, src []byte) (*ir.Module, error) {
	return Compile(source.NewFile(c.filename(id), src), id, Imports{Root: p})
}

// Compile parses and checks one module.
func Compile(file *source.File, id artifact.ID, imports sema.Imports) (*ir.Module, error) {
	f, err := parser.ParseFile(file)
	if err != nil {
		return nil, err
	}
	return sema.Check(f, string(id), imports)
}

func emitJS(ctx context.Context, p *artifact.Project, id artifact.ID, mod *ir.Module) (string, error) {
	return js.Emit(mod, Imports{Root: p})
}

func generate(ctx context.Context, p *artifact.Project, id artifact.ID, mod *ir.Module) (*vform.File, error) {
	return vcgen.Generate(mod, Imports{Root: p})
}

func (c *Compiler) prove(ctx context.Context, p *artifact.Project, id artifact.ID, f *vform.File) (*prover.Report, error) {
	return prover.Prove(ctx, f, c.cfg.Prover)
}

// Imports resolves imported modules to their typed IR.
type Imports struct {
	Root artifact.Root
}

func (i Imports) Module(path string) (*ir.Module, bool) {
	mod, err := artifact.Lookup[*ir.Module](i.Root, artifact.ID(path), artifact.TypedIR)
	return mod, err == nil
}
