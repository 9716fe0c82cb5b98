package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cli runs commands against one data dir with an isolated config dir.
type cli struct {
	t       *testing.T
	dataDir string
	args    []string
}

func newCLI(t *testing.T, extra ...string) *cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &cli{t: t, dataDir: t.TempDir(), args: extra}
}

type result struct {
	out    string
	errOut string
	err    error
}

func (c *cli) runIn(stdin string, args ...string) result {
	c.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(append([]string{"--data-dir", c.dataDir}, c.args...), args...))
	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func (c *cli) run(args ...string) result {
	c.t.Helper()
	return c.runIn("", args...)
}

func (c *cli) mustRun(args ...string) result {
	c.t.Helper()
	r := c.run(args...)
	require.NoError(c.t, r.err, "todo %v\nstderr: %s", args, r.errOut)
	return r
}

func (c *cli) add(text string, flags ...string) string {
	c.t.Helper()
	r := c.mustRun(append([]string{"add", text}, flags...)...)
	return strings.TrimSpace(r.out)
}

func (c *cli) tasks() []storage.Task {
	c.t.Helper()
	r := c.mustRun("list", "--json")
	var tasks []storage.Task
	require.NoError(c.t, json.Unmarshal([]byte(r.out), &tasks))
	return tasks
}

func TestAddAndList(t *testing.T) {
	c := newCLI(t)

	r := c.mustRun("add", "Buy", "milk")
	assert.NotEmpty(t, strings.TrimSpace(r.out), "add prints the new id")
	assert.Contains(t, r.errOut, "Task added successfully!")

	c.add("Call mom", "--time", "14:00", "--priority", "high")

	r = c.mustRun("list")
	assert.Contains(t, r.out, "Buy milk")
	assert.Contains(t, r.out, "Call mom")
	assert.Contains(t, r.out, "14:00")
	assert.Contains(t, r.out, "0% completed (0/2)")

	tasks := c.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, storage.PriorityLow, tasks[0].Priority)
	assert.Equal(t, storage.PriorityHigh, tasks[1].Priority)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
}

func TestListEmpty(t *testing.T) {
	c := newCLI(t)

	r := c.mustRun("list")
	assert.Contains(t, r.out, emptyListText)

	r = c.mustRun("list", "--json")
	assert.Equal(t, "[]", strings.TrimSpace(r.out))
}

func TestAdd_Rejects(t *testing.T) {
	c := newCLI(t)

	r := c.run("add", "   ")
	assert.Error(t, r.err)

	r = c.run("add", "Buy milk", "--time", "25:00")
	assert.ErrorContains(t, r.err, "HH:MM")

	r = c.run("add", "Buy milk", "--priority", "urgent")
	assert.Error(t, r.err)

	assert.Empty(t, c.tasks())
}

func TestDoneToggles(t *testing.T) {
	c := newCLI(t)
	id := c.add("Buy milk")

	r := c.mustRun("done", id)
	assert.Contains(t, r.out, "Buy milk: done")
	assert.True(t, c.tasks()[0].Completed)

	r = c.mustRun("done", id)
	assert.Contains(t, r.out, "not done")
	assert.False(t, c.tasks()[0].Completed)
}

func TestUnknownIDs(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk")

	for _, args := range [][]string{
		{"done", "42"},
		{"rm", "42"},
		{"edit", "42", "x"},
	} {
		r := c.run(args...)
		assert.ErrorContains(t, r.err, "no task with id 42", "todo %v", args)
	}

	r := c.run("rm", "abc")
	assert.ErrorContains(t, r.err, "invalid task id")
	assert.Len(t, c.tasks(), 1)
}

func TestRemove(t *testing.T) {
	c := newCLI(t)
	id := c.add("Buy milk")
	c.add("Call mom")

	r := c.mustRun("rm", id)
	assert.Contains(t, r.errOut, "Task deleted")

	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call mom", tasks[0].Text)
}

func TestEdit(t *testing.T) {
	c := newCLI(t)
	id := c.add("Buy milk")

	r := c.mustRun("edit", id, "Buy", "oat", "milk")
	assert.Contains(t, r.errOut, "Task updated")
	assert.Equal(t, "Buy oat milk", c.tasks()[0].Text)

	r = c.run("edit", id, "  ")
	assert.Error(t, r.err)
	assert.Equal(t, "Buy oat milk", c.tasks()[0].Text)
}

func TestClear(t *testing.T) {
	c := newCLI(t)

	r := c.mustRun("clear")
	assert.Contains(t, r.errOut, "No completed tasks to clear!")

	id := c.add("Buy milk")
	c.add("Call mom")
	c.mustRun("done", id)

	r = c.mustRun("clear")
	assert.Contains(t, r.errOut, "Completed tasks cleared!")
	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call mom", tasks[0].Text)
}

func TestSearch(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk")
	c.add("Call mom")

	r := c.mustRun("search", "MOM")
	assert.Contains(t, r.out, "Call mom")
	assert.NotContains(t, r.out, "Buy milk")

	r = c.mustRun("list", "--search", "zzz")
	assert.Contains(t, r.out, `No tasks match "zzz"`)
}

func TestProgressAndStreak(t *testing.T) {
	c := newCLI(t)

	r := c.mustRun("progress")
	assert.Contains(t, r.out, emptyListText)

	id := c.add("Buy milk")
	c.add("Call mom")
	c.add("Write report")
	c.mustRun("done", id)

	r = c.mustRun("progress")
	assert.Equal(t, "33% completed (1/3)", strings.TrimSpace(r.out))

	// Every run is an app start, but only the first one today counts.
	r = c.mustRun("streak")
	assert.Equal(t, "Streak: 1 days", strings.TrimSpace(r.out))
}

func TestDarkMode(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "Dark mode: off", strings.TrimSpace(c.mustRun("darkmode").out))
	assert.Equal(t, "Dark mode: on", strings.TrimSpace(c.mustRun("darkmode", "on").out))
	assert.Equal(t, "Dark mode: on", strings.TrimSpace(c.mustRun("darkmode").out))
	assert.Equal(t, "Dark mode: off", strings.TrimSpace(c.mustRun("darkmode", "toggle").out))

	r := c.run("darkmode", "maybe")
	assert.Error(t, r.err)
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk")
	c.add("Call mom", "--time", "14:00", "--priority", "high")
	before := c.tasks()

	file := filepath.Join(t.TempDir(), "out.json")
	r := c.mustRun("export", "-o", file)
	assert.Contains(t, r.out, file)
	assert.Contains(t, r.errOut, "Tasks exported!")

	other := newCLI(t)
	other.add("Something else")

	r = other.mustRun("import", file, "--dry-run")
	assert.Contains(t, r.out, "2 tasks (0 completed) will replace the current 1")
	assert.Len(t, other.tasks(), 1, "dry run changes nothing")

	r = other.runIn("n\n", "import", file)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Import canceled")
	assert.Len(t, other.tasks(), 1)

	r = other.runIn("y\n", "import", file)
	require.NoError(t, r.err)
	assert.Contains(t, r.errOut, "Tasks imported!")
	assert.Equal(t, before, other.tasks())
}

func TestExportToStdoutAndDefaultPath(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk")

	r := c.mustRun("export", "-o", "-")
	tasks, err := storage.DecodeTasks([]byte(r.out))
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	dir := t.TempDir()
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "todo")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("ux:\n  export_dir: "+dir+"\n"), 0600))

	c.mustRun("export")
	_, err = os.Stat(filepath.Join(dir, "my-tasks.json"))
	assert.NoError(t, err)
}

func TestImportRejectsBadFiles(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk")
	dir := t.TempDir()

	bad := map[string]string{
		"no-text.json":    `[{"id":1}]`,
		"priority.json":   `[{"id":1,"text":"a","priority":"urgent"}]`,
		"dupes.json":      `[{"id":1,"text":"a"},{"id":1,"text":"b"}]`,
		"not-array.json":  `{"id":1,"text":"a"}`,
	}
	for name, body := range bad {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))

		r := c.run("import", path, "--yes")
		assert.Error(t, r.err, name)
	}

	r := c.run("import", filepath.Join(dir, "missing.json"), "--yes")
	assert.Error(t, r.err)

	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
}

func TestImportFromStdin(t *testing.T) {
	c := newCLI(t)

	r := c.runIn(`[{"id":7,"text":"from stdin"}]`, "import", "-")
	assert.ErrorContains(t, r.err, "--yes")

	r = c.runIn(`[{"id":7,"text":"from stdin"}]`, "import", "-", "--yes")
	require.NoError(t, r.err)
	tasks := c.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(7), tasks[0].ID)
	assert.Equal(t, storage.PriorityLow, tasks[0].Priority)
}

func TestSQLiteBackend(t *testing.T) {
	c := newCLI(t, "--backend", "sqlite")
	c.add("Buy milk")
	c.add("Call mom")

	tasks := c.tasks()
	require.Len(t, tasks, 2)
	_, err := os.Stat(filepath.Join(c.dataDir, "todo.db"))
	assert.NoError(t, err)
}

func TestInvalidBackend(t *testing.T) {
	c := newCLI(t, "--backend", "redis")

	r := c.run("list")
	assert.ErrorContains(t, r.err, "backend")
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t, "--backend", "sqlite")

	r := c.mustRun("config", "init")
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "todo", "config.yaml")
	assert.Contains(t, r.out, path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	r = c.run("config", "init")
	assert.ErrorContains(t, r.err, "already exists")
	c.mustRun("config", "init", "--force")

	r = c.mustRun("config", "path")
	assert.Equal(t, path, strings.TrimSpace(r.out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), c.dataDir, "--data-dir must not be written to the file")
	assert.NotContains(t, string(data), "sqlite")
}

func TestConfigInit_NoConfigDir(t *testing.T) {
	c := newCLI(t)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	r := c.run("config", "init")
	assert.ErrorContains(t, r.err, "no config directory")
	assert.NotContains(t, r.out, "Wrote")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	r := c.mustRun("version")
	assert.Contains(t, r.out, "todo version dev")
}
