package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aethervision/internal/render"
)

// Scenario defines one dashboard scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is the module id to render.
	Module string `yaml:"module"`

	// Widgets are the session's widget selections, keyed like the query
	// string (f.<artifact>, lat.<artifact>, lon.<artifact>, color.<artifact>).
	Widgets map[string]string `yaml:"widgets,omitempty"`

	// Files is the artifact tree, keyed by path relative to the root.
	// Files not listed are missing.
	Files map[string]string `yaml:"files,omitempty"`

	// Assertions validate the rendered view.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of the rendered view. Every assertion
// except module_title targets a single artifact section.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Artifact names the section the assertion applies to.
	Artifact string `yaml:"artifact,omitempty"`

	// Status is the expected load status (status).
	Status string `yaml:"status,omitempty"`

	// Contains is an expected substring (notice, text, module_title).
	Contains string `yaml:"contains,omitempty"`

	// Chart is the expected chart type (chart, no_chart).
	Chart string `yaml:"chart,omitempty"`

	// Count is an expected number of rows (rows) or chart entries (chart).
	Count *int `yaml:"count,omitempty"`

	// Where lists column values every displayed row must have (rows).
	Where map[string]string `yaml:"where,omitempty"`

	// Counts is the expected derived count table, in order (counts).
	Counts []CountRow `yaml:"counts,omitempty"`
}

// CountRow is one row of a derived count table.
type CountRow struct {
	Value string `yaml:"value"`
	Count int64  `yaml:"count"`
}

// Assertion type constants.
const (
	AssertStatus      = "status"
	AssertNotice      = "notice"
	AssertNoNotice    = "no_notice"
	AssertRows        = "rows"
	AssertChart       = "chart"
	AssertNoChart     = "no_chart"
	AssertCounts      = "counts"
	AssertText        = "text"
	AssertModuleTitle = "module_title"
)

var validAssertions = map[string]bool{
	AssertStatus:      true,
	AssertNotice:      true,
	AssertNoNotice:    true,
	AssertRows:        true,
	AssertChart:       true,
	AssertNoChart:     true,
	AssertCounts:      true,
	AssertText:        true,
	AssertModuleTitle: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(file string) (*Scenario, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Module == "" {
		return fmt.Errorf("module is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for key := range s.Widgets {
		if !render.IsWidgetParam(key) {
			return fmt.Errorf("widgets: unknown widget %q", key)
		}
	}
	for p := range s.Files {
		if !safePath(p) {
			return fmt.Errorf("files: path %q must be relative and stay inside the artifact root", p)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !validAssertions[a.Type] {
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	if a.Type != AssertModuleTitle && a.Artifact == "" {
		return fmt.Errorf("assertions[%d]: %s requires artifact", index, a.Type)
	}

	switch a.Type {
	case AssertStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status requires status", index)
		}
	case AssertText, AssertModuleTitle:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: %s requires contains", index, a.Type)
		}
	case AssertRows:
		if a.Count == nil && len(a.Where) == 0 {
			return fmt.Errorf("assertions[%d]: rows requires count or where", index)
		}
	case AssertChart:
		if a.Chart == "" {
			return fmt.Errorf("assertions[%d]: chart requires chart", index)
		}
	case AssertCounts:
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts requires counts", index)
		}
	}
	return nil
}

func safePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
