package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env is an isolated config directory and data file for one test.
type env struct {
	configDir string
	dataPath  string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvUser, "")
	t.Setenv("SAKURAFLOW_LOG_LEVEL", "")
	return env{
		configDir: filepath.Join(dir, "config"),
		dataPath:  filepath.Join(dir, "sf_tasks", "tasks.json"),
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (e env) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	full := append([]string{"--config-dir", e.configDir, "--data", e.dataPath, "--as", "alice", "--log-level", "error"}, args...)
	code := run(root, full, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (e env) ok(t *testing.T, args ...string) string {
	t.Helper()
	r := e.run(t, "", args...)
	require.Equal(t, exitSuccess, r.code, "stderr: %s", r.stderr)
	return r.stdout
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.ok(t, "version")
	assert.Contains(t, out, "sakuraflow v")
	assert.NoDirExists(t, e.configDir, "version must not touch configuration")
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "list")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: 10")
	assert.NoFileExists(t, e.dataPath, "reading must not create the data file")
}

func TestConfiguredDataPathBeatsEnvironment(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "list")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SAKURAFLOW_DATA is only\n# consulted when it is unset")

	dir := t.TempDir()
	configured := filepath.Join(dir, "configured.json")
	fromEnv := filepath.Join(dir, "env.json")
	cfg := "data_path: " + configured + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(cfg), 0o644))
	t.Setenv("SAKURAFLOW_DATA", fromEnv)

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code := run(root, []string{"--config-dir", e.configDir, "--as", "alice", "--log-level", "error", "add", "x"}, &errOut)
	require.Equal(t, exitSuccess, code, errOut.String())

	assert.FileExists(t, configured)
	assert.NoFileExists(t, fromEnv)
}

func TestAddAndInfo(t *testing.T) {
	e := newEnv(t)

	out := e.ok(t, "add", "build", "the", "reactor")
	assert.Contains(t, out, "Created task #1: build the reactor")

	out = e.ok(t, "info", "1")
	assert.Contains(t, out, "Task #1: build the reactor")
	assert.Contains(t, out, "Status:        In Progress")
	assert.Contains(t, out, "Priority:      Medium")
	assert.Contains(t, out, "by alice")

	r := e.run(t, "", "info", "9")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "task 9 not found")
}

func TestAddJSON(t *testing.T) {
	e := newEnv(t)
	out := e.ok(t, "--json", "add", "mine ore")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1", got["id"])
	assert.Equal(t, "mine ore", got["title"])
	assert.Equal(t, "ULV", got["tier"])
}

func TestInfoYAML(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "mine ore")

	out := e.ok(t, "--yaml", "info", "1")
	assert.Contains(t, out, "id: \"1\"")
	assert.Contains(t, out, "title: mine ore")
}

func TestSetCanonicalisesAndRejects(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "pump")

	out := e.ok(t, "set", "1", "p", "vh")
	assert.Contains(t, out, "priority set to Very High")

	out = e.ok(t, "set", "1", "desc", "needs", "two", "valves")
	assert.Contains(t, out, "description set to needs two valves")

	r := e.run(t, "", "set", "1", "tier", "huge")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "allowed: ULV, LV")

	r = e.run(t, "", "set", "1", "colour", "red")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "unknown property")
}

func TestAppendRemove(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")
	e.ok(t, "add", "b")

	e.ok(t, "append", "1", "l", "urgent")
	r := e.run(t, "", "append", "1", "label", "urgent")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "already in labels")

	r = e.run(t, "", "append", "1", "dep", "7")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "task 7 does not exist")

	e.ok(t, "append", "1", "dep", "2")
	e.ok(t, "remove", "1", "l", "urgent")

	r = e.run(t, "", "remove", "1", "l", "urgent")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "is not in labels")

	out := e.ok(t, "info", "1")
	assert.Contains(t, out, "Depends on:    2")
	assert.Contains(t, out, "Labels:        -")
}

func TestNote(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")
	e.ok(t, "note", "1", "parts", "ordered")

	out := e.ok(t, "info", "1")
	assert.Contains(t, out, "alice: parts ordered")
}

func TestStatusVerbsAndViews(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "first")
	e.ok(t, "add", "second")

	out := e.ok(t, "complete", "1")
	assert.Contains(t, out, "Task #1: Done")

	out = e.ok(t, "list")
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first")

	out = e.ok(t, "archive")
	assert.Contains(t, out, "first")

	e.ok(t, "restore", "1")
	out = e.ok(t, "archive")
	assert.Contains(t, out, "no tasks")

	r := e.run(t, "", "pause", "5")
	assert.Equal(t, exitUserError, r.code)
}

func TestListPaging(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 12; i++ {
		e.ok(t, "add", "task")
	}

	out := e.ok(t, "list")
	assert.Contains(t, out, "page 1/2, 12 tasks")
	assert.Contains(t, out, "next: sakuraflow list 2")

	out = e.ok(t, "list", "--", "-1")
	assert.Contains(t, out, "page 2/2")

	r := e.run(t, "", "list", "two")
	assert.Equal(t, exitUserError, r.code)
}

func TestListFilters(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "fix pump")
	e.ok(t, "add", "pump upgrade")
	e.ok(t, "add", "paint wall")
	e.ok(t, "set", "2", "priority", "high")
	e.ok(t, "append", "3", "labels", "urgent")
	e.ok(t, "complete", "1")

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"default hides done", []string{"list"}, []string{"pump upgrade", "paint wall"}, []string{"fix pump"}},
		{"all includes done", []string{"list", "--all"}, []string{"fix pump", "pump upgrade", "paint wall"}, nil},
		{"archive shows done", []string{"list", "--archive"}, []string{"fix pump"}, []string{"pump upgrade"}},
		{"title with default view", []string{"list", "--title", "pump"}, []string{"pump upgrade"}, []string{"fix pump", "paint wall"}},
		{"title with all", []string{"l", "--all", "--title", "PUMP"}, []string{"fix pump", "pump upgrade"}, []string{"paint wall"}},
		{"priority", []string{"list", "--priority", "High"}, []string{"pump upgrade"}, []string{"paint wall"}},
		{"negated label", []string{"list", "--label", "!urgent"}, []string{"pump upgrade"}, []string{"paint wall"}},
		{"creator and collaborator", []string{"list", "--creator", "alice", "--collab", "bob"}, []string{"no tasks"}, []string{"pump"}},
		{"done status only in archive view", []string{"list", "--status", "done"}, []string{"no tasks"}, []string{"fix pump"}},
		{"tier", []string{"list", "--all", "--tier", "ulv"}, []string{"fix pump", "paint wall"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.ok(t, tt.args...)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, n := range tt.notWant {
				assert.NotContains(t, out, n)
			}
		})
	}

	var page pageView
	require.NoError(t, json.Unmarshal([]byte(e.ok(t, "--json", "list", "--all", "--title", "pump")), &page))
	assert.Equal(t, "title=pump", page.Query)
	assert.Equal(t, 2, page.TotalItems)

	r := e.run(t, "", "list", "--all", "--archive")
	assert.Equal(t, exitUserError, r.code)
}

func TestCommandAliases(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "fix pump")
	e.ok(t, "add", "paint wall")
	e.ok(t, "complete", "2")

	assert.Contains(t, e.ok(t, "l"), "fix pump")
	assert.Contains(t, e.ok(t, "ar"), "paint wall")
	assert.Contains(t, e.ok(t, "find", "pump"), "fix pump")
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "fix pump")
	e.ok(t, "add", "paint wall")
	e.ok(t, "complete", "1")

	out := e.ok(t, "search", "pump")
	assert.Contains(t, out, "fix pump")
	assert.NotContains(t, out, "paint wall")

	out = e.ok(t, "search", "s=!Done")
	assert.Contains(t, out, "paint wall")
	assert.NotContains(t, out, "fix pump")

	r := e.run(t, "", "search", "2")
	assert.Equal(t, exitUserError, r.code, "a fresh process has no cached search")
	assert.Contains(t, r.stderr, "repeat the query")

	r = e.run(t, "", "search", "99999999999999999999")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "invalid page")
}

func TestShellKeepsSearchCache(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "fix pump")

	script := strings.Join([]string{
		`add "pump upgrade"`,
		`search pump`,
		`search 1`,
		`info 3`,
		`shell`,
		`exit`,
	}, "\n")
	r := e.run(t, script, "shell")
	require.Equal(t, exitSuccess, r.code, r.stderr)

	assert.Contains(t, r.stdout, "Created task #2: pump upgrade")
	assert.Equal(t, 2, strings.Count(r.stdout, "Search results (page 1/1, 2 tasks)"))
	assert.Contains(t, r.stderr, "task 3 not found")
	assert.Contains(t, r.stderr, "already in the shell")
}

func TestShellRejectsSwitchingDataFile(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "fix pump")
	other := filepath.Join(t.TempDir(), "other.json")

	script := strings.Join([]string{
		`--data ` + other + ` add elsewhere`,
		`--config-dir ` + t.TempDir() + ` list`,
		`--data ` + e.dataPath + ` list --all`,
		`exit`,
	}, "\n")
	r := e.run(t, script, "shell")
	require.Equal(t, exitSuccess, r.code, r.stderr)

	assert.Equal(t, 2, strings.Count(r.stderr, "cannot change inside the shell"))
	assert.Contains(t, r.stdout, "fix pump", "the unchanged data path is accepted")
	assert.NoFileExists(t, other)
	assert.NotContains(t, r.stdout, "elsewhere")
}

func TestDefaultTier(t *testing.T) {
	e := newEnv(t)

	out := e.ok(t, "default-tier")
	assert.Contains(t, out, "Default tier: ULV")

	out = e.ok(t, "default-tier", "hv")
	assert.Contains(t, out, "Default tier set to HV")

	e.ok(t, "add", "x")
	out = e.ok(t, "info", "1")
	assert.Contains(t, out, "Tier:          HV")

	r := e.run(t, "", "default-tier", "XXL")
	assert.Equal(t, exitUserError, r.code)
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")
	e.ok(t, "add", "b")

	path := filepath.Join(t.TempDir(), "out.jsonl")
	out := e.ok(t, "export", path)
	assert.Contains(t, out, "Exported 2 tasks")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	r := e.run(t, "", "export", filepath.Join(t.TempDir(), "out.csv"))
	assert.Equal(t, exitUserError, r.code)
}

func TestCheck(t *testing.T) {
	e := newEnv(t)

	out := e.ok(t, "check")
	assert.Contains(t, out, "does not exist yet")

	e.ok(t, "add", "a")
	out = e.ok(t, "check")
	assert.Contains(t, out, "valid")

	require.NoError(t, os.WriteFile(e.dataPath, []byte(`{"tasks": 3}`), 0o644))
	r := e.run(t, "", "check")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stdout, "INVALID")
}

func TestCheckReportsLockBySentinelExistence(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(e.ok(t, "--json", "check")), &report))
	assert.False(t, report.Locked)

	lockPath := e.dataPath + ".lock"
	require.NoError(t, os.WriteFile(lockPath, nil, 0o644))

	require.NoError(t, json.Unmarshal([]byte(e.ok(t, "--json", "check")), &report))
	assert.True(t, report.Locked, "an empty sentinel still holds the lock")

	out := e.ok(t, "check")
	assert.Contains(t, out, "lock held (no holder details")

	require.NoError(t, os.WriteFile(lockPath, []byte(`{"token":"t","pid":4242,"acquired_at":"2026-01-01T00:00:00Z"}`), 0o644))
	out = e.ok(t, "check")
	assert.Contains(t, out, "lock held by pid 4242")
}

func TestUnlock(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")

	out := e.ok(t, "unlock")
	assert.Contains(t, out, "not locked")

	lockPath := e.dataPath + ".lock"
	require.NoError(t, os.WriteFile(lockPath, []byte(`{"token":"t","pid":4242,"acquired_at":"2026-01-01T00:00:00Z"}`), 0o644))

	out = e.ok(t, "unlock")
	assert.Contains(t, out, "pid 4242")
	assert.NoFileExists(t, lockPath)
}

func TestLockedDataFileIsSystemError(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "add", "a")

	cfg := "lock_timeout: 50ms\nlock_poll_interval: 5ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(e.dataPath+".lock", []byte("{}"), 0o644))

	r := e.run(t, "", "add", "b")
	assert.Equal(t, exitSysError, r.code)
	assert.Contains(t, r.stderr, "locked by another process")
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "add fix pump", want: []string{"add", "fix", "pump"}},
		{line: `add "fix  pump"`, want: []string{"add", "fix  pump"}},
		{line: `note 1 'it''s' done`, want: []string{"note", "1", "its", "done"}},
		{line: `note 1 "say \"hi\""`, want: []string{"note", "1", `say "hi"`}},
		{line: `set 1 desc ""`, want: []string{"set", "1", "desc", ""}},
		{line: `add "open`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
