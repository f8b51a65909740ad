package templar_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/templar/cmd/templar"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := templar.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "templar version dev")
}

func TestGenConfigCmd(t *testing.T) {
	out, err := run(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[retry]")
	assert.Contains(t, out, "# max_attempts = 5")
}

func TestNoSubcommand(t *testing.T) {
	_, err := run(t)
	assert.Error(t, err)
}

func TestPruneCmd(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.yaml":       "x",
		"a.yml":        "x",
		"nuget.config": "x",
		".git/config":  "x",
	})

	out, err := run(t, "--format", "text", "prune", root, "--ext", ".yaml", "--name", "nuget.config")
	require.NoError(t, err)
	assert.Equal(t, "extension .yaml: removed 1\nname nuget.config: removed 1\n", out)

	assert.NoFileExists(t, filepath.Join(root, "a.yaml"))
	assert.FileExists(t, filepath.Join(root, "a.yml"))
	assert.FileExists(t, filepath.Join(root, ".git", "config"))
}

func TestPruneCmdDryRun(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.yaml": "x"})

	_, err := run(t, "--dry-run", "--format", "text", "prune", root, "--ext", ".yaml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "a.yaml"))
}

func TestPruneCmdRequiresTarget(t *testing.T) {
	_, err := run(t, "prune", t.TempDir())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRenameAndRewriteCmds(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"pkg.template.api/Program.cs": "namespace pkg.template.api;",
	})

	out, err := run(t, "--format", "text", "rename", root, "--from", "pkg.template.", "--to", "pkg.app.")
	require.NoError(t, err)
	assert.Equal(t, "renamed: 1 (failed 0)\n", out)

	out, err = run(t, "--format", "text", "rewrite", root, "--from", "pkg.template.", "--to", "pkg.app.", "--ext", ".cs")
	require.NoError(t, err)
	assert.Equal(t, "rewritten: 1 of 1 (failed 0)\n", out)

	data, err := os.ReadFile(filepath.Join(root, "pkg.app.api", "Program.cs"))
	require.NoError(t, err)
	assert.Equal(t, "namespace pkg.app.api;", string(data))
}

func TestRenameCmdRequiresFlags(t *testing.T) {
	_, err := run(t, "rename", t.TempDir(), "--from", "x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewCmdExisting(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"pkg.template.api/Program.cs": "namespace pkg.template.api;",
		"deploy.yaml":                 "x",
		"nuget.config":                "x",
	})
	configFile := filepath.Join(t.TempDir(), "templar.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
default_template = "local"

[templates.local]
url = "ssh://git.example.com/templates/local"
branch = "main"
placeholder = "pkg.template."
replacement = "pkg.{name}."
prune_extensions = [".yaml"]
prune_files = ["nuget.config"]
`), 0644))

	out, err := run(t, "--config", configFile, "--format", "json", "new", "orders", "--existing", "--dir", dir)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "orders", decoded["project"])
	assert.Equal(t, "local", decoded["template"])
	assert.Equal(t, "pkg.orders.", decoded["replacement"])

	data, err := os.ReadFile(filepath.Join(dir, "pkg.orders.api", "Program.cs"))
	require.NoError(t, err)
	assert.Equal(t, "namespace pkg.orders.api;", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "deploy.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "nuget.config"))
}

func TestNewCmdRejectsBadName(t *testing.T) {
	_, err := run(t, "new", "../escape", "--existing", "--dir", t.TempDir())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNewCmdUnknownTemplate(t *testing.T) {
	_, err := run(t, "new", "orders", "--template", "nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, "--format", "html", "rename", t.TempDir(), "--from", "a", "--to", "b")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRepoCreateDryRun(t *testing.T) {
	t.Setenv("TEMPLAR_DEVOPS__ORGANIZATION", "https://dev.example.com/acme")
	t.Setenv("TEMPLAR_DEVOPS__PROJECT", "platform")

	out, err := run(t, "--dry-run", "--format", "text", "repo", "create", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "would run: az repos create --org https://dev.example.com/acme --project platform --name orders --output json")
}
