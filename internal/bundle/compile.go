package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wyweb/internal/artifact"
	"wyweb/internal/ast"
	"wyweb/internal/diag"
	"wyweb/internal/ir"
	"wyweb/internal/parser"
	"wyweb/internal/sema"
	"wyweb/internal/source"
	"wyweb/internal/trace"
)

// LibraryName is the name of the compiled standard library.
const LibraryName = "std"

// ModuleError reports a library module that failed to compile.
type ModuleError struct {
	Path       string
	Diagnostic *diag.Diagnostic
	Err        error
}

func (e *ModuleError) Error() string {
	if e.Diagnostic != nil {
		return e.Diagnostic.Short()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }

type Options struct {
	// Jobs bounds parallel compilation of one batch; 0 means GOMAXPROCS.
	Jobs   int
	Logger *zap.Logger
}

// Compile checks every module in dependency order and freezes the result
// into a library holding Source and TypedIR entries.
func Compile(ctx context.Context, b *Bundle, opts Options) (*artifact.Library, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	ctx, span := trace.Start(ctx, trace.ScopeRequest, "bundle")
	defer span.End("")

	files := make(map[string]*ast.File, len(b.Modules))
	imports := make(map[string][]string, len(b.Modules))
	paths := make([]string, 0, len(b.Modules))
	for _, m := range b.Modules {
		f, err := parser.ParseFile(source.NewFile(m.Path+".wy", m.Source))
		if err != nil {
			return nil, moduleError(m, "compile", err)
		}
		files[m.Path] = f
		for _, imp := range f.Imports {
			imports[m.Path] = append(imports[m.Path], imp.ModulePath())
		}
		paths = append(paths, m.Path)
	}

	idx := BuildIndex(paths)
	g, err := BuildGraph(idx, imports)
	if err != nil {
		return nil, err
	}
	topo := ToposortKahn(g)
	if topo.Cyclic {
		return nil, idx.CycleError(topo)
	}

	checked := make(sema.ImportMap, len(paths))
	for _, batch := range topo.Batches {
		out := make([]*ir.Module, len(batch))
		eg, ectx := errgroup.WithContext(ctx)
		eg.SetLimit(jobs)
		for i, id := range batch {
			modPath := idx.IDToName[int(id)]
			eg.Go(func() error {
				if err := ectx.Err(); err != nil {
					return err
				}
				_, ms := trace.Start(ectx, trace.ScopeModule, modPath)
				defer ms.End("")
				mod, err := sema.Check(files[modPath], modPath, checked)
				if err != nil {
					m, _ := b.Module(modPath)
					return moduleError(*m, "compile", err)
				}
				out[i] = mod
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for i, id := range batch {
			checked[idx.IDToName[int(id)]] = out[i]
		}
	}

	store := artifact.NewStore()
	for _, id := range topo.Order {
		modPath := idx.IDToName[int(id)]
		m, _ := b.Module(modPath)
		if _, err := store.Put(artifact.ID(modPath), artifact.Source, m.Source); err != nil {
			return nil, err
		}
		if _, err := store.Put(artifact.ID(modPath), artifact.TypedIR, checked[modPath]); err != nil {
			return nil, err
		}
	}
	log.Debug("library compiled",
		zap.Int("modules", len(topo.Order)),
		zap.Int("batches", len(topo.Batches)),
		zap.Stringer("digest", b.Digest()))
	return artifact.Freeze(LibraryName, store), nil
}

func moduleError(m Module, stage string, err error) error {
	me := &ModuleError{Path: m.Path, Err: err}
	if d, ok := diag.FromError(err, stage, m.Path+".wy", m.Source); ok {
		me.Diagnostic = &d
	}
	return me
}

// Open loads the bundle file, falling back to the sources in fallback when
// the file does not exist. from names where the modules came from.
func Open(filename string, fallback fs.FS) (b *Bundle, from string, err error) {
	if filename != "" {
		b, err = Load(filename)
		if err == nil {
			return b, filename, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}
	if fallback == nil {
		return nil, "", fmt.Errorf("library %s: %w", filename, os.ErrNotExist)
	}
	b, err = FromFS(fallback)
	if err != nil {
		return nil, "", err
	}
	return b, "embedded", nil
}
