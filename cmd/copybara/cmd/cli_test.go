package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/status"
)

const testConfig = `
project: cli_test
workflows:
  default:
    origin:
      type: folder
      path: /tmp/does-not-matter
    destination:
      type: folder
    authoring:
      mode: pass_through
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copybara.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCommand executes the root command with patched os.Exit and
// returns the exit code (0 when exit was never called).
func runCommand(t *testing.T, args ...string) int {
	t.Helper()
	code := 0
	osExit = func(c int) {
		code = c
	}
	defer func() { osExit = os.Exit }()

	rootCmd.SetArgs(args)
	_ = rootCmd.Execute()
	return code
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	path := writeConfig(t, testConfig)
	code := runCommand(t, "validate", path, "--git-repo-storage", t.TempDir())
	assert.Equal(t, status.ExitSuccess, code)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := writeConfig(t, "project: ''\n")
	code := runCommand(t, "validate", path, "--git-repo-storage", t.TempDir())
	assert.Equal(t, status.ExitConfig, code)
}

func TestValidateMissingFile(t *testing.T) {
	code := runCommand(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, status.ExitConfig, code)
}

func TestWorkflowsLists(t *testing.T) {
	path := writeConfig(t, testConfig)
	code := runCommand(t, "workflows", path)
	assert.Equal(t, status.ExitSuccess, code)
}
