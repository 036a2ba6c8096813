package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/errors"
	gitrepo "github.com/Khankindle/copybara/pkg/git"
	"github.com/Khankindle/copybara/pkg/status"
)

func TestNewRequiresURL(t *testing.T) {
	_, err := New("", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConfig))
}

func TestCacheDirIsEscapedURL(t *testing.T) {
	storage := t.TempDir()
	o, err := New("https://example.com/repo", storage)
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(storage, gitrepo.PercentEscape("https://example.com/repo")),
		o.repo.GitDir())
}

func TestResolveWithoutRefOrDefaultFails(t *testing.T) {
	o, err := New("https://example.com/repo", t.TempDir())
	require.NoError(t, err)

	_, err = o.Resolve("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConfig))
}

func TestLabelName(t *testing.T) {
	o, err := New("https://example.com/repo", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "GitOrigin-RevId", o.LabelName())
	assert.Equal(t, "https://example.com/repo", o.URL())
}
