package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aethervision/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "aether", cmd.Use)
	assert.Contains(t, cmd.Long, "read-only dashboard")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"serve", "modules", "render", "validate", "test", "mcp"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("root"))
}

func TestSubcommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))

	renderCmd, _, err := cmd.Find([]string{"render"})
	require.NoError(t, err)
	assert.NotNil(t, renderCmd.Flags().Lookup("set"))
	assert.NotNil(t, renderCmd.Flags().Lookup("max-rows"))

	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)
	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "yaml", "modules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootOptionsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aether.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: from-file\nframe_height: 420\n"), 0o644))

	t.Run("file", func(t *testing.T) {
		t.Setenv(config.EnvRoot, "")
		cfg, err := (&RootOptions{ConfigPath: path}).Config()
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Root)
		assert.Equal(t, 420, cfg.FrameHeight)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(config.EnvRoot, "from-env")
		cfg, err := (&RootOptions{ConfigPath: path}).Config()
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Root)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv(config.EnvRoot, "from-env")
		cfg, err := (&RootOptions{ConfigPath: path, Root: "from-flag"}).Config()
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Root)
	})
}

func TestRootOptionsConfigErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("listen: :80\n"), 0o644))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("frame_height: -1\n"), 0o644))

	for _, path := range []string{unknown, invalid, filepath.Join(dir, "missing.yaml")} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := execute(t, "--config", path, "modules")
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestRegistryDirFromConfig(t *testing.T) {
	regDir := writeRegistry(t, `package aether

modules: [{id: "solo", title: "Solo"}]
`)
	cfgPath := filepath.Join(t.TempDir(), "aether.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("registry_dir: "+regDir+"\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, "--root", t.TempDir(), "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "solo")
	assert.NotContains(t, out, "branch1")
}

func writeRegistry(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modules.cue"), []byte(src), 0o644))
	return dir
}
