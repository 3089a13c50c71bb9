package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed modules.cue
var modulesCUE []byte

// HomeID is the id of the module shown when nothing is selected.
const HomeID = "home"

// Registry is the ordered, immutable set of modules.
type Registry struct {
	modules []Module
	index   map[string]int
}

// New validates mods and builds a registry preserving their order.
func New(mods []Module) (*Registry, error) {
	if errs := Validate(mods); len(errs) > 0 {
		return nil, &InvalidError{Errors: errs}
	}
	r := &Registry{
		modules: mods,
		index:   make(map[string]int, len(mods)),
	}
	for i, m := range mods {
		r.index[m.ID] = i
	}
	return r, nil
}

// Modules returns the modules in menu order. The slice is a copy; the
// descriptors themselves must not be mutated.
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Lookup returns the module with the given id.
func (r *Registry) Lookup(id string) (*Module, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.modules[i], true
}

// Default returns the module selected at boot: the home module when
// declared, otherwise the first module.
func (r *Registry) Default() *Module {
	if m, ok := r.Lookup(HomeID); ok {
		return m
	}
	if len(r.modules) == 0 {
		return nil
	}
	return &r.modules[0]
}

// InvalidError wraps the validation errors of a rejected declaration.
type InvalidError struct {
	Errors []ValidationError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("registry validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

// Default compiles the embedded module declaration.
func Default() (*Registry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(modulesCUE, cue.Filename("modules.cue"))
	return build(ctx, v)
}

// LoadDir compiles the CUE package in dir in place of the embedded declaration.
func LoadDir(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("registry directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry directory: not a directory: %s", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}
	return build(ctx, ctx.BuildInstance(inst))
}

// Parse compiles a single CUE source. It is the entry point for tests and
// for registries held in memory.
func Parse(filename string, src []byte) (*Registry, error) {
	ctx := cuecontext.New()
	return build(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func build(ctx *cue.Context, v cue.Value) (*Registry, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	mods, err := Compile(unified)
	if err != nil {
		return nil, err
	}
	return New(mods)
}
