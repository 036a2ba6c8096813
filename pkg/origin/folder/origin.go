// Package folder implements the folder origin: revisions are read
// from a plain directory on disk.
package folder

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/origin"
	"github.com/Khankindle/copybara/pkg/status"
)

// Label stamped on migrated revisions
const Label = "FolderOrigin-RevId"

// patched over in tests
var timeNow = time.Now

// Origin reads a tree from a local folder. The folder has no history:
// every run observes a single synthetic change.
type Origin struct {
	path   string
	author model.Author
	fs     afero.Fs
	logger *zap.Logger
}

// Option configures a folder origin
type Option func(*Origin)

// Author sets the author of the synthetic change
func Author(a model.Author) Option {
	return func(o *Origin) {
		o.author = a
	}
}

// FS sets the filesystem trees are read through
func FS(fs afero.Fs) Option {
	return func(o *Origin) {
		o.fs = fs
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(o *Origin) {
		o.logger = l
	}
}

// New builds a folder origin rooted at path
func New(path string, opts ...Option) (*Origin, error) {
	if path == "" {
		return nil, status.Configf("folder origin requires a path")
	}
	o := &Origin{
		path:   path,
		author: model.Author{Name: "Copybara", Email: "noreply@copybara.invalid"},
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	return o, nil
}

var _ origin.Origin = (*Origin)(nil)

// reference is a folder path
type reference string

func (r reference) String() string {
	return string(r)
}

// Resolve returns the folder path as the reference. A non-empty ref
// overrides the configured path.
func (o *Origin) Resolve(ref string) (model.Reference, error) {
	path := o.path
	if ref != "" {
		path = ref
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, status.Configf("cannot absolutize folder origin path %q", path).Wrap(err)
	}
	info, err := o.fs.Stat(abs)
	if err != nil {
		return nil, status.VCSf("folder origin path %s is not accessible", abs).Wrap(err)
	}
	if !info.IsDir() {
		return nil, status.VCSf("folder origin path %s is not a directory", abs)
	}
	return reference(abs), nil
}

// Checkout copies the folder tree into workdir, skipping nested VCS
// metadata directories.
func (o *Origin) Checkout(ref model.Reference, workdir string) error {
	src := ref.String()
	return afero.Walk(o.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(workdir, rel)
		if info.IsDir() {
			return o.fs.MkdirAll(target, 0755)
		}
		content, err := afero.ReadFile(o.fs, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(o.fs, target, content, info.Mode().Perm())
	})
}

// Changes returns the single synthetic change for the folder
func (o *Origin) Changes(from, to model.Reference) ([]model.Change, error) {
	change, err := o.Change(to)
	if err != nil {
		return nil, err
	}
	return []model.Change{change}, nil
}

// Change synthesizes the change describing the folder's current state
func (o *Origin) Change(ref model.Reference) (model.Change, error) {
	return model.Change{
		Ref:     ref,
		Author:  o.author,
		Message: "Import of " + ref.String() + "\n",
		Date:    timeNow(),
		Labels:  map[string]string{},
	}, nil
}

// VisitChanges visits the single synthetic change
func (o *Origin) VisitChanges(start model.Reference, visit origin.Visitor) error {
	change, err := o.Change(start)
	if err != nil {
		return err
	}
	_, err = visit(change)
	return err
}

// LabelName returns the folder origin revision label
func (o *Origin) LabelName() string {
	return Label
}
