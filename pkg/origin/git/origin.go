// Package git implements the git origin: revisions are read from a
// remote git repository through a bare local cache.
package git

import (
	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/console"
	gitrepo "github.com/Khankindle/copybara/pkg/git"
	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/origin"
	"github.com/Khankindle/copybara/pkg/status"
)

// Label stamped on migrated revisions
const Label = "GitOrigin-RevId"

// Origin reads revisions from a git repository URL, caching objects in
// a bare repository under the state directory.
type Origin struct {
	repo      *gitrepo.Repository
	url       string
	configRef string
	repoType  gitrepo.RepoType
	cons      *console.Console
	logger    *zap.Logger
}

// Option configures a git origin
type Option func(*Origin)

// ConfigRef sets the default reference to track when a run does not
// name one
func ConfigRef(ref string) Option {
	return func(o *Origin) {
		o.configRef = ref
	}
}

// Type sets the repository hosting flavor
func Type(t gitrepo.RepoType) Option {
	return func(o *Origin) {
		o.repoType = t
	}
}

// Console sets the console progress is reported to
func Console(c *console.Console) Option {
	return func(o *Origin) {
		o.cons = c
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(o *Origin) {
		o.logger = l
	}
}

// New builds a git origin for a repository URL, with its bare cache
// under storageRoot.
func New(url, storageRoot string, opts ...Option) (*Origin, error) {
	if url == "" {
		return nil, status.Configf("git origin requires a url")
	}
	o := &Origin{
		url:      url,
		repoType: gitrepo.RepoGit,
		logger:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(o)
	}
	o.repo = gitrepo.NewBareRepository(gitrepo.CacheDir(storageRoot, url), gitrepo.Logger(o.logger))
	return o, nil
}

var _ origin.Origin = (*Origin)(nil)

// Resolve fetches and resolves a reference. Complete SHA-1 references
// fetch the default refspec first: some hosting providers refuse
// fetch-by-sha, so the sha must become reachable from fetched heads.
func (o *Origin) Resolve(ref string) (model.Reference, error) {
	o.progress("Git Origin: Initializing local repo")
	if err := o.repo.Init(); err != nil {
		return nil, err
	}
	if ref == "" {
		if o.configRef == "" {
			return nil, status.Configf(
				"no reference was passed for %s and no default reference was configured", o.url)
		}
		ref = o.configRef
	}
	o.progress("Git Origin: Fetching from " + o.url)
	if gitrepo.IsSHA1(ref) {
		if err := o.repo.Fetch(o.url); err != nil {
			return nil, err
		}
		return o.repo.ResolveReference(ref)
	}
	return o.repoType.ResolveRef(o.repo, o.url, ref)
}

// Checkout populates workdir with the tree at ref
func (o *Origin) Checkout(ref model.Reference, workdir string) error {
	gitRef, err := o.gitRef(ref)
	if err != nil {
		return err
	}
	return o.repo.WithWorkTree(workdir).Checkout(gitRef)
}

// Changes returns the first-parent chain in (from, to], oldest first
func (o *Origin) Changes(from, to model.Reference) ([]model.Change, error) {
	refRange := to.String()
	if from != nil {
		refRange = from.String() + ".." + to.String()
	}
	entries, err := o.query(0, refRange)
	if err != nil {
		return nil, err
	}
	// git log returns newest first
	changes := make([]model.Change, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		changes = append(changes, asChange(entries[i]))
	}
	return changes, nil
}

// Change returns the single change at ref
func (o *Origin) Change(ref model.Reference) (model.Change, error) {
	entry, err := o.queryOne(ref.String())
	if err != nil {
		return model.Change{}, err
	}
	return asChange(entry), nil
}

// VisitChanges walks the first-parent chain from start toward the root
func (o *Origin) VisitChanges(start model.Reference, visit origin.Visitor) error {
	current, err := o.queryOne(start.String())
	if err != nil {
		return err
	}
	for {
		result, err := visit(asChange(current))
		if err != nil {
			return err
		}
		if result == origin.Terminate || len(current.Parents) == 0 {
			return nil
		}
		current, err = o.queryOne(current.Parents[0].String())
		if err != nil {
			return err
		}
	}
}

// LabelName returns the git origin revision label
func (o *Origin) LabelName() string {
	return Label
}

// URL returns the repository URL revisions are read from
func (o *Origin) URL() string {
	return o.url
}

func (o *Origin) query(limit int, refExpression string) ([]gitrepo.LogEntry, error) {
	out, err := o.repo.Run(gitrepo.LogArgs(limit, refExpression)...)
	if err != nil {
		return nil, err
	}
	return gitrepo.ParseLog(out)
}

func (o *Origin) queryOne(refExpression string) (gitrepo.LogEntry, error) {
	entries, err := o.query(1, refExpression)
	if err != nil {
		return gitrepo.LogEntry{}, err
	}
	if len(entries) != 1 {
		return gitrepo.LogEntry{}, status.VCSf("cannot find reference %q", refExpression)
	}
	return entries[0], nil
}

func (o *Origin) gitRef(ref model.Reference) (gitrepo.Reference, error) {
	if gitRef, ok := ref.(gitrepo.Reference); ok {
		return gitRef, nil
	}
	return gitrepo.NewReference(ref.String())
}

func (o *Origin) progress(msg string) {
	if o.cons != nil {
		o.cons.Progress(msg)
	}
	o.logger.Debug(msg)
}

func asChange(entry gitrepo.LogEntry) model.Change {
	return model.Change{
		Ref:     entry.Ref,
		Author:  entry.Author,
		Message: entry.Message,
		Date:    entry.Date,
		Labels:  entry.Labels,
	}
}
