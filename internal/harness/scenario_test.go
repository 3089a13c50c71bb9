package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
name: filter
description: city filter
module: branch8
widgets:
  f.city_decisions: Mumbai
files:
  branch8/city_decisions.csv: |
    city,status
    Mumbai,approved
assertions:
  - type: rows
    artifact: city_decisions
    count: 1
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(validScenario))
	require.NoError(t, err)

	assert.Equal(t, "filter", s.Name)
	assert.Equal(t, "branch8", s.Module)
	assert.Equal(t, map[string]string{"f.city_decisions": "Mumbai"}, s.Widgets)
	assert.Equal(t, "city,status\nMumbai,approved\n", s.Files["branch8/city_decisions.csv"])
	require.Len(t, s.Assertions, 1)
	require.NotNil(t, s.Assertions[0].Count)
	assert.Equal(t, 1, *s.Assertions[0].Count)
}

func TestLoadScenario(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(p, []byte(validScenario), 0o644))

	s, err := LoadScenario(p)
	require.NoError(t, err)
	assert.Equal(t, "filter", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte("name: x\ndescription: y\nmodule: home\nassertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "description: d\nmodule: home\nassertions: [{type: module_title, contains: Home}]", "name is required"},
		{"no description", "name: n\nmodule: home\nassertions: [{type: module_title, contains: Home}]", "description is required"},
		{"no module", "name: n\ndescription: d\nassertions: [{type: module_title, contains: Home}]", "module is required"},
		{"no assertions", "name: n\ndescription: d\nmodule: home", "assertions list is required"},
		{"bad widget", "name: n\ndescription: d\nmodule: home\nwidgets: {city: x}\nassertions: [{type: module_title, contains: Home}]", "unknown widget"},
		{"escaping file", "name: n\ndescription: d\nmodule: home\nfiles: {../x.csv: a}\nassertions: [{type: module_title, contains: Home}]", "stay inside"},
		{"absolute file", "name: n\ndescription: d\nmodule: home\nfiles: {/x.csv: a}\nassertions: [{type: module_title, contains: Home}]", "stay inside"},
		{"unknown type", "name: n\ndescription: d\nmodule: home\nassertions: [{type: vibes}]", "unknown type"},
		{"missing artifact", "name: n\ndescription: d\nmodule: home\nassertions: [{type: status, status: ok}]", "requires artifact"},
		{"status without status", "name: n\ndescription: d\nmodule: home\nassertions: [{type: status, artifact: a}]", "status requires status"},
		{"rows without bounds", "name: n\ndescription: d\nmodule: home\nassertions: [{type: rows, artifact: a}]", "rows requires count or where"},
		{"chart without type", "name: n\ndescription: d\nmodule: home\nassertions: [{type: chart, artifact: a}]", "chart requires chart"},
		{"counts without rows", "name: n\ndescription: d\nmodule: home\nassertions: [{type: counts, artifact: a}]", "counts requires counts"},
		{"text without contains", "name: n\ndescription: d\nmodule: home\nassertions: [{type: text, artifact: a}]", "text requires contains"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
