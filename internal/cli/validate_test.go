package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/testutil"
)

const duplicateArtifactCUE = `package aether

modules: [{
	id:    "branch1"
	title: "Branch 1"
	artifacts: [
		{name: "scores", kind: "table", path: "branch1/a.csv"},
		{name: "scores", kind: "table", path: "branch1/b.csv"},
	]
}]
`

func TestValidateBuiltIn(t *testing.T) {
	root := testutil.ArtifactRoot(t, map[string]string{
		"branch6/geohealth_scores.csv": "city,health_risk_score\nDelhi,0.7\n",
	})

	out, err := execute(t, "--root", root, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Registry valid (9 modules)")
	assert.Contains(t, out, "branch6: 1/1 artifacts present")
	assert.Contains(t, out, "branch4: 0/3 artifacts present")
	assert.Contains(t, out, "missing branch4/risk_map.html")
	assert.NotContains(t, out, "home:")
}

func TestValidateDirJSON(t *testing.T) {
	dir := writeRegistry(t, `package aether

modules: [{id: "solo", title: "Solo", artifacts: [{name: "notes", kind: "text", path: "solo/notes.txt"}]}]
`)

	out, err := execute(t, "--root", t.TempDir(), "--format", "json", "validate", dir)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	require.Len(t, result.Modules, 1)
	assert.Equal(t, []string{"solo/notes.txt"}, result.Modules[0].Missing)
}

func TestValidateInvalidRegistry(t *testing.T) {
	dir := writeRegistry(t, duplicateArtifactCUE)

	out, err := execute(t, "--root", t.TempDir(), "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, registry.ErrDuplicateArtifact)
}

func TestValidateInvalidRegistryJSON(t *testing.T) {
	dir := writeRegistry(t, duplicateArtifactCUE)

	out, err := execute(t, "--root", t.TempDir(), "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, registry.ErrDuplicateArtifact, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateCommandErrors(t *testing.T) {
	syntax := writeRegistry(t, "package aether\n\nmodules: [{\n")

	for name, dir := range map[string]string{
		"not found":    filepath.Join(t.TempDir(), "nope"),
		"no cue files": t.TempDir(),
		"syntax error": syntax,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, "--root", t.TempDir(), "validate", dir)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
