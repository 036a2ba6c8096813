package transform

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/errors"
	"github.com/Khankindle/copybara/pkg/files"
	"github.com/Khankindle/copybara/pkg/status"
)

func setupTree(t *testing.T, paths map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range paths {
		require.NoError(t, afero.WriteFile(fs, "/w/"+path, []byte(content), 0644))
	}
	return fs
}

func treePaths(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	paths, err := files.ListTree(fs, "/w")
	require.NoError(t, err)
	return paths
}

func TestMoveRenamesFile(t *testing.T) {
	fs := setupTree(t, map[string]string{"one.before": "content"})
	m, err := NewMove("one.before", "folder/one.after")
	require.NoError(t, err)

	require.NoError(t, m.Transform(fs, "/w", nil))

	assert.Equal(t, []string{"folder/one.after"}, treePaths(t, fs))
	content, err := afero.ReadFile(fs, "/w/folder/one.after")
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestMoveDirectorySubtree(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"src/a.txt":     "a",
		"src/sub/b.txt": "b",
		"other.txt":     "o",
	})
	m, err := NewMove("src", "dst/inner")
	require.NoError(t, err)

	require.NoError(t, m.Transform(fs, "/w", nil))

	assert.Equal(t, []string{"dst/inner/a.txt", "dst/inner/sub/b.txt", "other.txt"}, treePaths(t, fs))
}

func TestMoveAllContentsToSubdir(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"a.txt":     "a",
		"dir/b.txt": "b",
	})
	m, err := NewMove("", "third_party/project")
	require.NoError(t, err)

	require.NoError(t, m.Transform(fs, "/w", nil))

	assert.Equal(t,
		[]string{"third_party/project/a.txt", "third_party/project/dir/b.txt"},
		treePaths(t, fs))
}

func TestMoveDirContentsToRoot(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"nested/a.txt":     "a",
		"nested/dir/b.txt": "b",
	})
	m, err := NewMove("nested", "")
	require.NoError(t, err)

	require.NoError(t, m.Transform(fs, "/w", nil))

	assert.Equal(t, []string{"a.txt", "dir/b.txt"}, treePaths(t, fs))
}

func TestMoveIntoExistingDirectory(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"file.txt":       "f",
		"existing/x.txt": "x",
	})
	m, err := NewMove("file.txt", "existing")
	require.NoError(t, err)

	require.NoError(t, m.Transform(fs, "/w", nil))

	assert.Equal(t, []string{"existing/file.txt", "existing/x.txt"}, treePaths(t, fs))
}

func TestMoveOntoExistingFileFails(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})
	m, err := NewMove("a.txt", "b.txt")
	require.NoError(t, err)

	err = m.Transform(fs, "/w", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTransform))
}

func TestMoveMissingSourceFails(t *testing.T) {
	fs := setupTree(t, map[string]string{"a.txt": "a"})
	m, err := NewMove("nope.txt", "b.txt")
	require.NoError(t, err)

	err = m.Transform(fs, "/w", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTransform))
}

func TestMoveValidation(t *testing.T) {
	_, err := NewMove("/abs", "x")
	assert.Error(t, err)
	_, err = NewMove("a/../b", "x")
	assert.Error(t, err)
	_, err = NewMove("same", "same")
	assert.Error(t, err)
}

func TestMoveReverseSwaps(t *testing.T) {
	m, err := NewMove("a", "b")
	require.NoError(t, err)
	r, err := m.Reverse()
	require.NoError(t, err)
	assert.Equal(t, "Moving b to a", r.String())

	rr, err := r.Reverse()
	require.NoError(t, err)
	assert.Equal(t, m.String(), rr.String())
}

func TestMoveRoundTrip(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"src/a.txt":     "a",
		"src/sub/b.txt": "b",
	})
	require.NoError(t, files.CopyTree(fs, "/w", "/orig"))

	m, err := NewMove("src", "dst")
	require.NoError(t, err)
	require.NoError(t, m.Transform(fs, "/w", nil))

	r, err := m.Reverse()
	require.NoError(t, err)
	require.NoError(t, r.Transform(fs, "/w", nil))

	same, diff, err := files.SameTree(fs, "/orig", "/w")
	require.NoError(t, err)
	assert.True(t, same, diff)
}
