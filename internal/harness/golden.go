package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/render"
)

// Snapshot reduces a view to deterministic, line-oriented text for golden
// file comparison. Table cells are summarized by shape; charts list every
// entry.
func Snapshot(v *render.View) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "module %s %q\n", v.Module.ID, v.Module.Title)
	for _, s := range v.Sections {
		fmt.Fprintf(&buf, "section %s %s %s %s\n", s.Artifact, s.Kind, s.Status, s.Path)
		if n := s.Notice; n != nil {
			fmt.Fprintf(&buf, "  notice %s: %s\n", n.Level, n.Message)
		}
		if f := s.Filter; f != nil {
			selected := f.Selected
			if selected == "" {
				selected = "All"
			}
			fmt.Fprintf(&buf, "  filter %s=%s options=%s\n", f.Column, selected, strings.Join(f.Options, ","))
		}
		if b := s.Bindings; b != nil {
			fmt.Fprintf(&buf, "  bindings lat=%s lon=%s color=%s\n", dash(b.Lat.Selected), dash(b.Lon.Selected), dash(b.Color.Selected))
		}
		if t := s.Table; t != nil {
			cols := make([]string, len(t.Columns))
			for i, c := range t.Columns {
				cols[i] = c.Name + ":" + string(c.Type)
			}
			fmt.Fprintf(&buf, "  table %s rows=%d\n", strings.Join(cols, ","), len(t.Rows))
		}
		for _, c := range s.Charts {
			fmt.Fprintf(&buf, "  chart %s %q %s\n", c.Type, c.Title, chartEntries(c))
			if c.Counts != nil {
				counts := make([]string, len(c.Counts.Rows))
				for i, row := range c.Counts.Rows {
					counts[i] = row[0].Raw + "=" + row[1].Raw
				}
				fmt.Fprintf(&buf, "  counts %s\n", strings.Join(counts, " "))
			}
		}
		if s.Status == artifact.StatusOK {
			switch s.Kind {
			case artifact.KindHTML:
				fmt.Fprintf(&buf, "  html %d bytes\n", len(s.HTML))
			case artifact.KindText:
				fmt.Fprintf(&buf, "  text %d bytes\n", len(s.Text))
			}
		}
	}
	return buf.Bytes()
}

func chartEntries(c *chart.Chart) string {
	var entries []string
	for _, b := range c.Bars {
		entries = append(entries, b.Label+"="+formatNumber(b.Value))
	}
	for _, p := range c.Points {
		entries = append(entries, p.X+"="+formatNumber(p.Y))
	}
	if len(c.Markers) > 0 {
		entries = append(entries, "markers="+strconv.Itoa(len(c.Markers)))
	}
	if len(entries) == 0 {
		return "(empty)"
	}
	return strings.Join(entries, " ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RunWithGolden executes a scenario and compares the view snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result.View))
}

// GoldenPath returns the golden file of a scenario file: a golden/
// directory next to it, named after the file.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden writes the result's snapshot to path.
func WriteGolden(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, Snapshot(result.View), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result's snapshot matches the golden
// file at path.
func CompareGolden(path string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(want, Snapshot(result.View)), nil
}
