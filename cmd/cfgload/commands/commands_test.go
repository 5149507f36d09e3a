package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sonemaro/cfgload/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "app.conf", "test_int=5\ntest_str_list= x ,y\n")

	out, err := execute(t, "dump", "--no-color", conf)
	require.NoError(t, err)
	assert.Contains(t, out, "test_int = 5")
	assert.Contains(t, out, "test_str_list = x,y")

	out, err = execute(t, "dump", "-o", "json", conf)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "test_int"`)

	_, err = execute(t, "dump", "-o", "xml", conf)
	assert.Error(t, err)

	_, err = execute(t, "dump")
	assert.Error(t, err)
}

func TestDumpCommandSchemaAndStrict(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", "parameters:\n  - name: Name\n    type: string\n    mandatory: true\n")
	conf := writeFile(t, dir, "app.conf", "Name=box\nExtra=1\n")

	out, err := execute(t, "dump", "--schema", schema, conf)
	require.NoError(t, err)
	assert.Contains(t, out, "Name = box")

	_, err = execute(t, "dump", "--schema", schema, "--strict", conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter [Extra]")
}

func TestDumpCommandEnvironment(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "app.conf", "test_int=5\n")
	target := filepath.Join(dir, "out.yaml")

	t.Setenv("CFGLOAD_OUTPUT", "yaml")
	t.Setenv("CFGLOAD_OUTPUT_FILE", target)

	_, err := execute(t, "dump", conf)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "value: 5")
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.conf", "test_int=1\n")
	bad := writeFile(t, dir, "bad.conf", "test_int=1\nno equals here\n")

	out, err := execute(t, "check", "-w", "2", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good)

	out, err = execute(t, "check", "--no-color", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, err.Error(), "1 of 2 config files failed")

	_, err = execute(t, "check")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = execute(t, "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "cfgload "+version.Version)
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	watch, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)

	for _, name := range []string{"output", "file", "optional", "stats", "schema", "strict"} {
		assert.NotNil(t, watch.Flags().Lookup(name), name)
	}

	_, err = execute(t, "watch")
	assert.Error(t, err)

	_, err = execute(t, "watch", "-o", "xml", "app.conf")
	assert.Error(t, err)
}
