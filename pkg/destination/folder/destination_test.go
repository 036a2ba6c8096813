package folder

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/destination"
	"github.com/Khankindle/copybara/pkg/files"
	"github.com/Khankindle/copybara/pkg/pathmatch"
)

type ref string

func (r ref) String() string { return string(r) }

func write(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte{}, 0644))
}

func result(workdir string, excludes *pathmatch.Matcher) destination.TransformResult {
	return destination.TransformResult{
		Workdir:   workdir,
		OriginRef: ref("origin_ref"),
		Message:   "test migration\n",
		Excludes:  excludes,
	}
}

func TestDeleteWithEmptyExcludes(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/workdir/file1.txt")
	write(t, fs, "/local/file2.txt")

	d, err := New("copybara_project", Folder("/local"), FS(fs))
	require.NoError(t, err)

	_, err = d.Write(result("/workdir", pathmatch.Empty), nil)
	require.NoError(t, err)

	paths, err := files.ListTree(fs, "/local")
	require.NoError(t, err)
	assert.Equal(t, []string{"file1.txt"}, paths)
}

func TestCopyWithExcludes(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/workdir/test.txt")
	write(t, fs, "/workdir/dir/file.txt")
	write(t, fs, "/local/root_file")
	write(t, fs, "/local/root_file2")
	write(t, fs, "/local/one/file.txt")
	write(t, fs, "/local/one/file.java")
	write(t, fs, "/local/two/file.java")

	d, err := New("copybara_project", Folder("/local"), FS(fs))
	require.NoError(t, err)

	excludes := pathmatch.MustNew([]string{"root_file", `**\.java`}, nil)
	_, err = d.Write(result("/workdir", excludes), nil)
	require.NoError(t, err)

	paths, err := files.ListTree(fs, "/local")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dir/file.txt",
		"one/file.java",
		"root_file",
		"test.txt",
		"two/file.java",
	}, paths)
}

func TestDefaultRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/workdir/test.txt")
	write(t, fs, "/workdir/dir/file.txt")

	d, err := New("copybara_project", FS(fs), WorkingDir("/tmp/X"))
	require.NoError(t, err)

	wrote, err := d.Write(result("/workdir", pathmatch.Empty), nil)
	require.NoError(t, err)

	// non-alphanumerics are stripped from the project name
	parent := filepath.Dir(wrote.Path)
	assert.Equal(t, filepath.Join("/tmp/X", "copybara", "out", "copybaraproject"), parent)

	entries, err := afero.ReadDir(fs, parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	paths, err := files.ListTree(fs, wrote.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/file.txt", "test.txt"}, paths)
}

func TestPreviousRefIsAlwaysEmpty(t *testing.T) {
	d, err := New("p")
	require.NoError(t, err)
	prev, err := d.PreviousRef("GitOrigin-RevId")
	require.NoError(t, err)
	assert.Empty(t, prev)
}
