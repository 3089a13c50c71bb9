package registry

import (
	"fmt"
	"path"
	"strings"

	"github.com/roach88/aethervision/internal/artifact"
)

// Validation error codes (E200-E299)
const (
	ErrDuplicateModule   = "E201" // module id declared twice
	ErrModuleField       = "E202" // id or title empty
	ErrInvalidKind       = "E203" // unknown artifact kind
	ErrInvalidPath       = "E204" // absolute or escaping artifact path
	ErrDuplicateArtifact = "E205" // artifact name declared twice in a module
	ErrUnknownArtifact   = "E206" // chart or filter bound to an undeclared artifact
	ErrNonTableArtifact  = "E207" // chart or filter bound to html/text
	ErrInvalidChartType  = "E208" // unknown chart type
	ErrMissingBinding    = "E209" // chart lacks a column binding its type needs
	ErrInvalidAggregate  = "E210" // aggregate other than count, or on a non-bar chart
	ErrFilterColumnEmpty = "E211" // filter without a column
	ErrNoModules         = "E212" // empty module list
)

// ValidationError is one problem found in a registry declaration.
type ValidationError struct {
	Module  string `json:"module"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Module, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks compiled modules for consistency. It returns every error
// found rather than stopping at the first.
func Validate(mods []Module) []ValidationError {
	var errs []ValidationError
	if len(mods) == 0 {
		errs = append(errs, ValidationError{Field: "modules", Message: "at least one module is required", Code: ErrNoModules})
	}
	seen := make(map[string]bool)

	for i := range mods {
		m := &mods[i]
		if m.ID == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("modules[%d].id", i), Message: "id is required", Code: ErrModuleField})
		}
		if m.Title == "" {
			errs = append(errs, ValidationError{Module: m.ID, Field: "title", Message: "title is required", Code: ErrModuleField})
		}
		if m.ID != "" && seen[m.ID] {
			errs = append(errs, ValidationError{Module: m.ID, Field: "id", Message: "duplicate module id", Code: ErrDuplicateModule})
		}
		seen[m.ID] = true

		errs = append(errs, validateArtifacts(m)...)
		errs = append(errs, validateCharts(m)...)
		errs = append(errs, validateFilters(m)...)
	}
	return errs
}

func validateArtifacts(m *Module) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	for _, a := range m.Artifacts {
		field := "artifacts." + a.Name
		if names[a.Name] {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: "duplicate artifact name", Code: ErrDuplicateArtifact})
		}
		names[a.Name] = true

		if !artifact.ValidKinds[a.Kind] {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("invalid kind %q, must be table, html or text", a.Kind), Code: ErrInvalidKind})
		}
		if !validPath(a.Path) {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("path %q must be relative to the artifact root", a.Path), Code: ErrInvalidPath})
		}
	}
	return errs
}

func validateCharts(m *Module) []ValidationError {
	var errs []ValidationError
	for i, c := range m.Charts {
		field := fmt.Sprintf("charts[%d]", i)

		if e, ok := checkTableRef(m, field, c.Artifact); !ok {
			errs = append(errs, e)
		}
		if !ValidChartTypes[c.Type] {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("invalid chart type %q", c.Type), Code: ErrInvalidChartType})
			continue
		}

		switch c.Type {
		case ChartBar, ChartLine:
			if c.X == "" {
				errs = append(errs, missingBinding(m, field, c.Type, "x"))
			}
			if c.Y == "" && c.Aggregate != AggregateCount {
				errs = append(errs, missingBinding(m, field, c.Type, "y"))
			}
		case ChartHistogram:
			if c.X == "" {
				errs = append(errs, missingBinding(m, field, c.Type, "x"))
			}
		case ChartScatterMap:
			if !c.Interactive && (c.Lat == "" || c.Lon == "") {
				errs = append(errs, missingBinding(m, field, c.Type, "lat and lon"))
			}
		}

		if c.Aggregate != "" && (c.Aggregate != AggregateCount || c.Type != ChartBar) {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("aggregate %q is only supported as \"count\" on bar charts", c.Aggregate), Code: ErrInvalidAggregate})
		}
	}
	return errs
}

func validateFilters(m *Module) []ValidationError {
	var errs []ValidationError
	for i, f := range m.Filters {
		field := fmt.Sprintf("filters[%d]", i)
		if e, ok := checkTableRef(m, field, f.Artifact); !ok {
			errs = append(errs, e)
		}
		if f.Column == "" {
			errs = append(errs, ValidationError{Module: m.ID, Field: field, Message: "filter column is required", Code: ErrFilterColumnEmpty})
		}
	}
	return errs
}

func checkTableRef(m *Module, field, name string) (ValidationError, bool) {
	ref, ok := m.Artifact(name)
	if !ok {
		return ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("artifact %q is not declared", name), Code: ErrUnknownArtifact}, false
	}
	if ref.Kind != artifact.KindTable {
		return ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("artifact %q is %s, not a table", name, ref.Kind), Code: ErrNonTableArtifact}, false
	}
	return ValidationError{}, true
}

func missingBinding(m *Module, field string, t ChartType, binding string) ValidationError {
	return ValidationError{Module: m.ID, Field: field, Message: fmt.Sprintf("%s chart requires %s", t, binding), Code: ErrMissingBinding}
}

func validPath(p string) bool {
	if p == "" || path.IsAbs(p) || strings.Contains(p, `\`) {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../") && clean != "."
}
