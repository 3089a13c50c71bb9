package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aethervision/internal/artifact"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	mods := reg.Modules()
	require.Len(t, mods, 9)

	ids := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"home", "branch1", "branch2", "branch3", "branch4", "branch5", "branch6", "branch7", "branch8"}, ids)

	home := reg.Default()
	require.NotNil(t, home)
	assert.Equal(t, HomeID, home.ID)
	assert.Empty(t, home.Artifacts)
	assert.NotEmpty(t, home.Description)
}

func TestDefaultRegistryArtifactPaths(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	want := map[string][]string{
		"branch1": {"branch1/digital_twin_base.html", "branch1/india_env_layers.html", "branch1/geology_layers.html"},
		"branch2": {"branch2/env_analytics.csv"},
		"branch3": {"branch3/fusion_risk_scores.csv", "branch3/fusion_risk_heatmap.html"},
		"branch4": {"branch4/risk_scores.csv", "branch4/risk_map.html", "branch4/hazard_report.txt"},
		"branch5": {"branch5/7_day_hazard_forecast.csv", "branch5/forecast_with_scores.csv", "branch5/forecast_heatmap.html", "branch5/forecast_report.txt"},
		"branch6": {"branch6/geohealth_scores.csv"},
		"branch7": {"branch7/early_alerts.csv"},
		"branch8": {"branch8/city_decisions.csv"},
	}
	for id, paths := range want {
		m, ok := reg.Lookup(id)
		require.True(t, ok, id)
		var got []string
		for _, a := range m.Artifacts {
			got = append(got, a.Path)
			assert.Equal(t, id, a.ModuleID)
		}
		assert.Equal(t, paths, got, id)
	}
}

func TestDefaultRegistryCharts(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	b6, _ := reg.Lookup("branch6")
	charts := b6.ChartsFor("geohealth_scores")
	require.Len(t, charts, 1)
	assert.Equal(t, ChartBar, charts[0].Type)
	assert.Equal(t, []string{"city", "health_risk_score"}, charts[0].RequiredColumns())

	b8, _ := reg.Lookup("branch8")
	charts = b8.ChartsFor("city_decisions")
	require.Len(t, charts, 1)
	assert.Equal(t, AggregateCount, charts[0].Aggregate)
	f, ok := b8.FilterFor("city_decisions")
	require.True(t, ok)
	assert.Equal(t, "city", f.Column)

	b2, _ := reg.Lookup("branch2")
	charts = b2.ChartsFor("env_analytics")
	require.Len(t, charts, 1)
	assert.True(t, charts[0].Interactive)
	assert.Empty(t, charts[0].RequiredColumns(), "interactive bindings are resolved at render time")

	b3, _ := reg.Lookup("branch3")
	assert.Equal(t, DefaultBins, b3.Charts[0].BinCount())
}

func TestLookupUnknown(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	_, ok := reg.Lookup("branch9")
	assert.False(t, ok)
}

func TestModulesReturnsCopy(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	mods := reg.Modules()
	mods[0] = Module{ID: "changed"}
	assert.Equal(t, HomeID, reg.Modules()[0].ID)
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad kind", `modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "image", path: "a.png"}]}]`},
		{"bad chart type", `modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "table", path: "a.csv"}], charts: [{type: "pie", artifact: "a"}]}]`},
		{"unknown field", `modules: [{id: "m", title: "M", colour: "red"}]`},
		{"missing title", `modules: [{id: "m"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.cue", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsInconsistentModules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			"duplicate module",
			`modules: [{id: "m", title: "M"}, {id: "m", title: "N"}]`,
			ErrDuplicateModule,
		},
		{
			"chart on unknown artifact",
			`modules: [{id: "m", title: "M", charts: [{type: "bar", artifact: "nope", x: "a", y: "b"}]}]`,
			ErrUnknownArtifact,
		},
		{
			"chart on html",
			`modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "html", path: "m/a.html"}], charts: [{type: "histogram", artifact: "a", x: "v"}]}]`,
			ErrNonTableArtifact,
		},
		{
			"bar without y",
			`modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "table", path: "m/a.csv"}], charts: [{type: "bar", artifact: "a", x: "v"}]}]`,
			ErrMissingBinding,
		},
		{
			"escaping path",
			`modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "text", path: "../secret.txt"}]}]`,
			ErrInvalidPath,
		},
		{
			"count on line",
			`modules: [{id: "m", title: "M", artifacts: [{name: "a", kind: "table", path: "m/a.csv"}], charts: [{type: "line", artifact: "a", x: "d", aggregate: "count"}]}]`,
			ErrInvalidAggregate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.cue", []byte(tt.src))
			require.Error(t, err)
			var invalid *InvalidError
			require.ErrorAs(t, err, &invalid)
			codes := make([]string, len(invalid.Errors))
			for i, e := range invalid.Errors {
				codes[i] = e.Code
			}
			assert.Contains(t, codes, tt.code)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	mods := []Module{
		{ID: "m", Title: "", Artifacts: []artifact.Ref{{Name: "a", Kind: "bin", Path: "/abs"}}},
	}
	errs := Validate(mods)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.ElementsMatch(t, []string{ErrModuleField, ErrInvalidKind, ErrInvalidPath}, codes)
}

func TestNewRejectsEmptyList(t *testing.T) {
	_, err := New(nil)
	var invalid *InvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, ErrNoModules, invalid.Errors[0].Code)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	src := `package custom

modules: [
	{id: "home", title: "Home"},
	{
		id:    "alerts"
		title: "Alerts"
		artifacts: [{name: "early_alerts", kind: "table", path: "branch7/early_alerts.csv"}]
		charts: [{type: "bar", artifact: "early_alerts", x: "alert_level", aggregate: "count"}]
	},
]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modules.cue"), []byte(src), 0o644))

	reg, err := LoadDir(dir)
	require.NoError(t, err)
	mods := reg.Modules()
	require.Len(t, mods, 2)
	assert.Equal(t, "alerts", mods[1].ID)
	assert.Equal(t, artifact.KindTable, mods[1].Artifacts[0].Kind)
}

func TestLoadDirErrors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)

	_, err = LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestCompileErrorPosition(t *testing.T) {
	_, err := Parse("broken.cue", []byte("modules: [{id: \"m\", title: 3}]"))
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.Pos.IsValid())
	assert.Contains(t, err.Error(), "title")
}
