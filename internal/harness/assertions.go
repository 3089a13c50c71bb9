package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/render"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Artifact string // Section the assertion targeted
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Artifact != "" {
		fmt.Fprintf(&buf, " (%s)", e.Artifact)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against v and returns the
// failure messages.
func EvaluateAssertions(v *render.View, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(v, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(v *render.View, a Assertion) error {
	if a.Type == AssertModuleTitle {
		if !strings.Contains(v.Module.Title, a.Contains) {
			return fail(a, fmt.Sprintf("title containing %q", a.Contains), v.Module.Title)
		}
		return nil
	}

	s, ok := findSection(v, a.Artifact)
	if !ok {
		return fail(a, "a section for the artifact", "no such section")
	}

	switch a.Type {
	case AssertStatus:
		return assertStatus(s, a)
	case AssertNotice:
		return assertNotice(s, a)
	case AssertNoNotice:
		if s.Notice != nil {
			return fail(a, "no notice", s.Notice.Message)
		}
	case AssertRows:
		return assertRows(s, a)
	case AssertChart:
		return assertChart(s, a)
	case AssertNoChart:
		if c := findChart(s, a.Chart); c != nil {
			return fail(a, "no chart", string(c.Type))
		}
	case AssertCounts:
		return assertCounts(s, a)
	case AssertText:
		body := s.Text + s.HTML
		if !strings.Contains(body, a.Contains) {
			return fail(a, fmt.Sprintf("content containing %q", a.Contains), fmt.Sprintf("%d bytes without it", len(body)))
		}
	default:
		return fail(a, "a known assertion type", a.Type)
	}
	return nil
}

func assertStatus(s *render.Section, a Assertion) error {
	if string(s.Status) != a.Status {
		return fail(a, a.Status, string(s.Status))
	}
	return nil
}

func assertNotice(s *render.Section, a Assertion) error {
	if s.Notice == nil {
		return fail(a, "a notice", "none")
	}
	if a.Contains != "" && !strings.Contains(s.Notice.Message, a.Contains) {
		return fail(a, fmt.Sprintf("notice containing %q", a.Contains), s.Notice.Message)
	}
	return nil
}

func assertRows(s *render.Section, a Assertion) error {
	if s.Table == nil {
		return fail(a, "a table", "none")
	}
	if a.Count != nil && len(s.Table.Rows) != *a.Count {
		return fail(a, fmt.Sprintf("%d rows", *a.Count), fmt.Sprintf("%d rows", len(s.Table.Rows)))
	}
	for column, want := range a.Where {
		i := s.Table.Index(column)
		if i < 0 {
			return fail(a, fmt.Sprintf("column %q", column), strings.Join(s.Table.Header(), ","))
		}
		for n, row := range s.Table.Rows {
			if row[i].Raw != want {
				return fail(a, fmt.Sprintf("every row with %s=%q", column, want), fmt.Sprintf("row %d has %q", n, row[i].Raw))
			}
		}
	}
	return nil
}

func assertChart(s *render.Section, a Assertion) error {
	c := findChart(s, a.Chart)
	if c == nil {
		return fail(a, a.Chart+" chart", fmt.Sprintf("%d other chart(s)", len(s.Charts)))
	}
	if a.Count != nil {
		n := len(c.Bars) + len(c.Points) + len(c.Markers)
		if n != *a.Count {
			return fail(a, fmt.Sprintf("%d entries", *a.Count), fmt.Sprintf("%d entries", n))
		}
	}
	return nil
}

func assertCounts(s *render.Section, a Assertion) error {
	var got []string
	for _, c := range s.Charts {
		if c.Counts == nil {
			continue
		}
		for _, row := range c.Counts.Rows {
			got = append(got, row[0].Raw+"="+row[1].Raw)
		}
		break
	}

	want := make([]string, len(a.Counts))
	for i, r := range a.Counts {
		want[i] = r.Value + "=" + strconv.FormatInt(r.Count, 10)
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		return fail(a, strings.Join(want, " "), strings.Join(got, " "))
	}
	return nil
}

func findSection(v *render.View, name string) (*render.Section, bool) {
	for i := range v.Sections {
		if v.Sections[i].Artifact == name {
			return &v.Sections[i], true
		}
	}
	return nil, false
}

// findChart returns the first chart of the given type, or the first chart
// when typ is empty.
func findChart(s *render.Section, typ string) *chart.Chart {
	for _, c := range s.Charts {
		if typ == "" || string(c.Type) == typ {
			return c
		}
	}
	return nil
}

func fail(a Assertion, expected, actual string) error {
	return &AssertionError{Type: a.Type, Artifact: a.Artifact, Expected: expected, Actual: actual}
}
