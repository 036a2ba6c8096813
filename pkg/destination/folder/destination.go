// Package folder implements a destination that writes the migrated
// tree into a local directory.
package folder

import (
	"os"
	"path/filepath"
	"time"
	"unicode"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/destination"
	"github.com/Khankindle/copybara/pkg/files"
	"github.com/Khankindle/copybara/pkg/status"
)

// patched over in tests
var timeNow = time.Now

// Destination copies the migrated tree into a local folder, deleting
// pre-existing files that do not match the exclusion matcher.
type Destination struct {
	localFolder string
	projectName string
	workingDir  string
	fs          afero.Fs
	logger      *zap.Logger
}

// Option configures a folder destination
type Option func(*Destination)

// Folder sets the target directory. When unset, a timestamped
// directory under <cwd>/copybara/out/<project> is used.
func Folder(path string) Option {
	return func(d *Destination) {
		d.localFolder = path
	}
}

// WorkingDir sets the directory default output paths are rooted at
func WorkingDir(dir string) Option {
	return func(d *Destination) {
		d.workingDir = dir
	}
}

// FS sets the filesystem trees are written through
func FS(fs afero.Fs) Option {
	return func(d *Destination) {
		d.fs = fs
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(d *Destination) {
		d.logger = l
	}
}

// New builds a folder destination for a project
func New(projectName string, opts ...Option) (*Destination, error) {
	if projectName == "" {
		return nil, status.Configf("folder destination requires a project name")
	}
	d := &Destination{
		projectName: projectName,
		fs:          afero.NewOsFs(),
		logger:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(d)
	}
	return d, nil
}

var _ destination.Destination = (*Destination)(nil)

// Write deletes every file in the target folder that does not match
// the exclusion matcher, then copies the workdir in. Post-write, the
// folder holds exactly the workdir files plus the preserved matches.
func (d *Destination) Write(res destination.TransformResult, cons *console.Console) (destination.WriteResult, error) {
	target, err := d.targetDir()
	if err != nil {
		return destination.WriteResult{}, err
	}
	if err := d.fs.MkdirAll(target, 0755); err != nil {
		return destination.WriteResult{}, status.VCSf("create destination folder %s", target).Wrap(err)
	}
	if err := files.DeleteNotMatching(d.fs, target, res.Excludes); err != nil {
		return destination.WriteResult{}, status.VCSf("clean destination folder %s", target).Wrap(err)
	}
	if err := files.CopyTree(d.fs, res.Workdir, target); err != nil {
		return destination.WriteResult{}, status.VCSf("copy tree to %s", target).Wrap(err)
	}
	if cons != nil {
		cons.Info("Folder destination: %s", target)
	}
	d.logger.Debug("wrote folder destination",
		zap.String("target", target), zap.String("origin_ref", res.OriginRef.String()))
	return destination.WriteResult{Path: target}, nil
}

// PreviousRef always reports no previous migration: folders keep no
// history.
func (d *Destination) PreviousRef(labelName string) (string, error) {
	return "", nil
}

func (d *Destination) targetDir() (string, error) {
	if d.localFolder != "" {
		return d.localFolder, nil
	}
	cwd := d.workingDir
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return "", status.Configf("cannot determine the working directory").Wrap(err)
		}
	}
	stamp := timeNow().Format("20060102-150405.000")
	return filepath.Join(cwd, "copybara", "out", sanitizeProject(d.projectName), stamp), nil
}

// sanitizeProject strips everything but letters and digits from a
// project name, keeping default output paths shell-friendly.
func sanitizeProject(name string) string {
	var out []rune
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
