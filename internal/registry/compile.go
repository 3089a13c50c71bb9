package registry

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/aethervision/internal/artifact"
)

// CompileError is a registry declaration error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile turns a CUE value holding a `modules` list into Module descriptors.
// The value should already be unified with the schema.
func Compile(v cue.Value) ([]Module, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	modsVal := v.LookupPath(cue.ParsePath("modules"))
	if !modsVal.Exists() {
		return nil, &CompileError{Field: "modules", Message: "modules list is required", Pos: v.Pos()}
	}

	iter, err := modsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var mods []Module
	for iter.Next() {
		m, err := compileModule(iter.Value())
		if err != nil {
			return nil, err
		}
		mods = append(mods, *m)
	}
	return mods, nil
}

func compileModule(v cue.Value) (*Module, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Module{Artifacts: []artifact.Ref{}}
	var err error

	if m.ID, err = requiredString(v, "id"); err != nil {
		return nil, err
	}
	if m.Title, err = requiredString(v, "title"); err != nil {
		return nil, err
	}
	if m.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}

	artifacts := v.LookupPath(cue.ParsePath("artifacts"))
	if artifacts.Exists() {
		var decls []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
			Path string `json:"path"`
		}
		if err := artifacts.Decode(&decls); err != nil {
			return nil, formatCUEError(err)
		}
		for _, d := range decls {
			m.Artifacts = append(m.Artifacts, artifact.Ref{
				ModuleID: m.ID,
				Name:     d.Name,
				Kind:     artifact.Kind(d.Kind),
				Path:     d.Path,
			})
		}
	}

	charts := v.LookupPath(cue.ParsePath("charts"))
	if charts.Exists() {
		if err := charts.Decode(&m.Charts); err != nil {
			return nil, formatCUEError(err)
		}
	}

	filters := v.LookupPath(cue.ParsePath("filters"))
	if filters.Exists() {
		if err := filters.Decode(&m.Filters); err != nil {
			return nil, formatCUEError(err)
		}
	}

	return m, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
