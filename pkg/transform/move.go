package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/status"
)

// Move renames a file or moves a directory subtree. An empty before
// moves the whole workdir into the after directory; an empty after
// moves the before directory contents up to the workdir root.
type Move struct {
	before string
	after  string
}

// NewMove builds a move transformation from two relative paths
func NewMove(before, after string) (*Move, error) {
	for _, p := range []string{before, after} {
		if err := validateMovePath(p); err != nil {
			return nil, err
		}
	}
	if before == after {
		return nil, status.Configf("move has the same before and after path %q", before)
	}
	return &Move{before: before, after: after}, nil
}

func validateMovePath(p string) error {
	if p == "" {
		return nil
	}
	if strings.HasPrefix(p, "/") {
		return status.Configf("move path %q must be relative", p)
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." || segment == "." || segment == "" {
			return status.Configf("move path %q cannot contain '%s' segments", p, segment)
		}
	}
	return nil
}

// Transform applies the move to workdir
func (m *Move) Transform(fs afero.Fs, workdir string, cons *console.Console) error {
	if cons != nil {
		cons.Progress(m.String())
	}
	if m.before == "" {
		return m.moveRootContents(fs, workdir)
	}
	src := filepath.Join(workdir, filepath.FromSlash(m.before))
	info, err := fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return status.Transformf("move: %s does not exist in the workdir", m.before)
		}
		return status.Transformf("move: stat %s", m.before).Wrap(err)
	}
	if m.after == "" {
		if !info.IsDir() {
			return status.Transformf("move: %s must be a directory to move its contents to the workdir root", m.before)
		}
		return m.moveToRoot(fs, workdir, src)
	}
	dst := filepath.Join(workdir, filepath.FromSlash(m.after))
	if dstInfo, err := fs.Stat(dst); err == nil {
		if !dstInfo.IsDir() {
			return status.Transformf("move: destination %s already exists as a file", m.after)
		}
		// an existing directory receives the source inside it
		dst = filepath.Join(dst, filepath.Base(src))
	} else if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return status.Transformf("move: create parent of %s", m.after).Wrap(err)
	}
	if err := fs.Rename(src, dst); err != nil {
		return status.Transformf("move: rename %s to %s", m.before, m.after).Wrap(err)
	}
	return nil
}

// moveRootContents moves everything at the workdir root into the
// after directory, keeping the inner structure.
func (m *Move) moveRootContents(fs afero.Fs, workdir string) error {
	dst := filepath.Join(workdir, filepath.FromSlash(m.after))
	topSegment := strings.SplitN(m.after, "/", 2)[0]
	entries, err := afero.ReadDir(fs, workdir)
	if err != nil {
		return status.Transformf("move: read workdir").Wrap(err)
	}
	if err := fs.MkdirAll(dst, 0755); err != nil {
		return status.Transformf("move: create %s", m.after).Wrap(err)
	}
	for _, entry := range entries {
		if entry.Name() == topSegment {
			continue
		}
		if err := fs.Rename(filepath.Join(workdir, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return status.Transformf("move: rename %s into %s", entry.Name(), m.after).Wrap(err)
		}
	}
	return nil
}

// moveToRoot moves the contents of src up to the workdir root.
func (m *Move) moveToRoot(fs afero.Fs, workdir, src string) error {
	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return status.Transformf("move: read %s", m.before).Wrap(err)
	}
	for _, entry := range entries {
		target := filepath.Join(workdir, entry.Name())
		if _, err := fs.Stat(target); err == nil {
			return status.Transformf("move: %s already exists in the workdir root", entry.Name())
		}
		if err := fs.Rename(filepath.Join(src, entry.Name()), target); err != nil {
			return status.Transformf("move: rename %s to the workdir root", entry.Name()).Wrap(err)
		}
	}
	if err := fs.Remove(src); err != nil {
		return status.Transformf("move: remove emptied %s", m.before).Wrap(err)
	}
	return nil
}

// Reverse swaps before and after. Move is always reversible.
func (m *Move) Reverse() (Transformation, error) {
	return &Move{before: m.after, after: m.before}, nil
}

func (m *Move) String() string {
	return fmt.Sprintf("Moving %s to %s", displayPath(m.before), displayPath(m.after))
}

func displayPath(p string) string {
	if p == "" {
		return "the workdir root"
	}
	return p
}
