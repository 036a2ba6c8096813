package git

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PercentEscape escapes a repository URL into a directory name: ASCII
// letters, digits, '-' and '_' pass through, space becomes '+', and
// every other byte becomes %XX.
//
// The escape set is part of the on-disk cache layout; changing it
// orphans existing caches.
func PercentEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			sb.WriteByte(c)
		case c == ' ':
			sb.WriteByte('+')
		default:
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}

// CacheDir returns the bare cache directory for a repository URL under
// the given storage root.
func CacheDir(storageRoot, url string) string {
	return filepath.Join(storageRoot, PercentEscape(url))
}
