package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The escape output is part of the on-disk cache layout: these values
// are load-bearing, not merely descriptive.
func TestPercentEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/org/repo.git", "https%3A%2F%2Fgithub%2Ecom%2Forg%2Frepo%2Egit"},
		{"repo-name_ok", "repo-name_ok"},
		{"with space", "with+space"},
		{"git@host:path", "git%40host%3Apath"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PercentEscape(tt.in), "escaping %q", tt.in)
	}
}

func TestCacheDir(t *testing.T) {
	dir := CacheDir("/home/u/.copybara/repos", "https://example.com/r")
	assert.Equal(t, filepath.Join("/home/u/.copybara/repos", "https%3A%2F%2Fexample%2Ecom%2Fr"), dir)
}

func TestNewReference(t *testing.T) {
	ref, err := NewReference(shaNewer)
	assert.NoError(t, err)
	assert.Equal(t, shaNewer, ref.String())

	_, err = NewReference("master")
	assert.Error(t, err)
	_, err = NewReference(shaNewer[:12])
	assert.Error(t, err)
	_, err = NewReference("G" + shaNewer[1:])
	assert.Error(t, err)
}

func TestIsSHA1(t *testing.T) {
	assert.True(t, IsSHA1(shaNewer))
	assert.False(t, IsSHA1("HEAD"))
	assert.False(t, IsSHA1(shaNewer[:39]))
	// uppercase hex is not a canonical sha
	assert.False(t, IsSHA1("ABCDEF0123456789ABCDEF0123456789ABCDEF01"))
}
