// Package files implements the tree manipulation primitives shared by
// transformations, the folder backends and the engine: copying,
// comparing, and matcher-driven deletion of working trees.
package files

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/Khankindle/copybara/pkg/pathmatch"
)

// ListTree returns the slash-separated relative paths of all regular
// files under root, sorted.
func ListTree(fs afero.Fs, root string) ([]string, error) {
	var paths []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// CopyTree copies every regular file under src into dst, creating
// directories as needed. Existing files in dst are overwritten.
func CopyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0755)
		}
		return copyFile(fs, path, target, info.Mode())
	})
}

func copyFile(fs afero.Fs, src, dst string, mode os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// DeleteMatching removes files under root whose relative path matches
// the matcher, pruning directories left empty.
func DeleteMatching(fs afero.Fs, root string, m *pathmatch.Matcher) error {
	return deleteWhere(fs, root, m.Matches)
}

// DeleteNotMatching removes files under root whose relative path does
// NOT match the matcher, pruning directories left empty. This is the
// destination deletion policy: excluded files survive.
func DeleteNotMatching(fs afero.Fs, root string, m *pathmatch.Matcher) error {
	return deleteWhere(fs, root, func(path string) bool {
		return !m.Matches(path)
	})
}

func deleteWhere(fs afero.Fs, root string, condemned func(string) bool) error {
	paths, err := ListTree(fs, root)
	if err != nil {
		return err
	}
	for _, rel := range paths {
		if condemned(rel) {
			if err := fs.Remove(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
				return err
			}
		}
	}
	return PruneEmptyDirs(fs, root)
}

// PruneEmptyDirs removes directories under root that contain no files,
// deepest first. The root itself is kept.
func PruneEmptyDirs(fs afero.Fs, root string) error {
	var dirs []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// deepest first so that emptied parents go too
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})
	for _, dir := range dirs {
		entries, err := afero.ReadDir(fs, dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := fs.Remove(dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// SameTree compares two trees byte-for-byte. When they differ, the
// returned description names the first differing path.
func SameTree(fs afero.Fs, a, b string) (bool, string, error) {
	aPaths, err := ListTree(fs, a)
	if err != nil {
		return false, "", err
	}
	bPaths, err := ListTree(fs, b)
	if err != nil {
		return false, "", err
	}
	bSet := make(map[string]struct{}, len(bPaths))
	for _, p := range bPaths {
		bSet[p] = struct{}{}
	}
	for _, p := range aPaths {
		if _, ok := bSet[p]; !ok {
			return false, "file " + p + " is missing", nil
		}
	}
	if len(aPaths) != len(bPaths) {
		aSet := make(map[string]struct{}, len(aPaths))
		for _, p := range aPaths {
			aSet[p] = struct{}{}
		}
		for _, p := range bPaths {
			if _, ok := aSet[p]; !ok {
				return false, "unexpected file " + p, nil
			}
		}
	}
	for _, p := range aPaths {
		aBytes, err := afero.ReadFile(fs, filepath.Join(a, filepath.FromSlash(p)))
		if err != nil {
			return false, "", err
		}
		bBytes, err := afero.ReadFile(fs, filepath.Join(b, filepath.FromSlash(p)))
		if err != nil {
			return false, "", err
		}
		if !bytes.Equal(aBytes, bBytes) {
			return false, "file " + p + " differs", nil
		}
	}
	return true, "", nil
}
