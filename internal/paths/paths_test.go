package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirFake points the working-directory lookup at dir for one test.
func chdirFake(t *testing.T, dir string) {
	t.Helper()
	orig := platformDir.getwd
	platformDir.getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { platformDir.getwd = orig })
}

func writeDataFile(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(root, DataDirName, DataFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	return path
}

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/sakuraflow", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "sakuraflow"), got)
	})
}

func TestDefaultConfigDir_Darwin(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("darwin-only test")
	}

	got, err := DefaultConfigDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "Application Support", "sakuraflow"), got)
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{name: "flag wins over env", flag: "/explicit/config", envVal: "/env/config", wantSub: "/explicit/config"},
		{name: "env wins when flag empty", envVal: "/env/config", wantSub: "/env/config"},
		{name: "platform default when both empty", wantSub: "sakuraflow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveDataPath(t *testing.T) {
	cwd := t.TempDir()
	chdirFake(t, cwd)

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{name: "flag wins over all", flag: "/flag/tasks.json", configValue: "/config/tasks.json", envVal: "/env/tasks.json", want: "/flag/tasks.json"},
		{name: "config wins over env", configValue: "/config/tasks.json", envVal: "/env/tasks.json", want: "/config/tasks.json"},
		{name: "env wins when flag and config empty", envVal: "/env/tasks.json", want: "/env/tasks.json"},
		{name: "working directory default", want: filepath.Join(cwd, DataDirName, DataFileName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataPath, tt.envVal)
			got, err := ResolveDataPath(tt.flag, tt.configValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataPathDiscoversParentFile(t *testing.T) {
	t.Setenv(EnvDataPath, "")
	root := t.TempDir()
	want := writeDataFile(t, root)

	nested := filepath.Join(root, "plugins", "sakuraflow")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdirFake(t, nested)

	got, err := ResolveDataPath("", "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveDataPathDiscoveryStopsAfterTwoParents(t *testing.T) {
	t.Setenv(EnvDataPath, "")
	root := t.TempDir()
	writeDataFile(t, root)

	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	chdirFake(t, deep)

	got, err := ResolveDataPath("", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(deep, DataDirName, DataFileName), got)
}

func TestResolve_AbsolutePath(t *testing.T) {
	t.Run("relative config flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative data flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvDataPath, "")
		got, err := ResolveDataPath("relative/tasks.json", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
