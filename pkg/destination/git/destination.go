// Package git implements a destination that commits the migrated tree
// to a git repository and pushes it.
package git

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/destination"
	gitrepo "github.com/Khankindle/copybara/pkg/git"
	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/status"
)

// Destination writes commits through a bare repository cached under
// the state directory and pushes them to the configured push ref.
type Destination struct {
	repo     *gitrepo.Repository
	url      string
	fetchRef string
	pushRef  string
	logger   *zap.Logger
}

// Option configures a git destination
type Option func(*Destination)

// FetchRef sets the destination ref the previous state is read from
func FetchRef(ref string) Option {
	return func(d *Destination) {
		d.fetchRef = ref
	}
}

// PushRef sets the ref new commits are pushed to
func PushRef(ref string) Option {
	return func(d *Destination) {
		d.pushRef = ref
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) Option {
	return func(d *Destination) {
		d.logger = l
	}
}

// New builds a git destination for a repository URL, with its bare
// cache under storageRoot.
func New(url, storageRoot string, opts ...Option) (*Destination, error) {
	if url == "" {
		return nil, status.Configf("git destination requires a url")
	}
	d := &Destination{
		url:      url,
		fetchRef: "master",
		pushRef:  "master",
		logger:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(d)
	}
	d.repo = gitrepo.NewBareRepository(gitrepo.CacheDir(storageRoot, url), gitrepo.Logger(d.logger))
	return d, nil
}

var _ destination.Destination = (*Destination)(nil)

// Write stages the workdir as a new commit on top of the destination
// tip and pushes it. Paths matching the exclusion matcher are restored
// from the tip first, so the write preserves them.
func (d *Destination) Write(res destination.TransformResult, cons *console.Console) (destination.WriteResult, error) {
	if err := d.repo.Init(); err != nil {
		return destination.WriteResult{}, err
	}
	if cons != nil {
		cons.Progress("Git Destination: Fetching " + d.url)
	}
	hasTip, err := d.fetchTip()
	if err != nil {
		return destination.WriteResult{}, err
	}
	worktree := d.repo.WithWorkTree(res.Workdir)
	if hasTip {
		if _, err := d.repo.Run("update-ref", "HEAD", "FETCH_HEAD"); err != nil {
			return destination.WriteResult{}, err
		}
		if err := d.restoreExcluded(worktree, res); err != nil {
			return destination.WriteResult{}, err
		}
	}
	if _, err := worktree.Run("add", "-A", "."); err != nil {
		return destination.WriteResult{}, err
	}
	env := []string{
		"GIT_AUTHOR_NAME=" + res.Author.Name,
		"GIT_AUTHOR_EMAIL=" + res.Author.Email,
		"GIT_AUTHOR_DATE=" + res.AuthorDate.Format(time.RFC3339),
		"GIT_COMMITTER_NAME=" + res.Author.Name,
		"GIT_COMMITTER_EMAIL=" + res.Author.Email,
	}
	if _, err := worktree.RunWithEnv(env, "commit", "-m", res.Message); err != nil {
		return destination.WriteResult{}, err
	}
	sha, err := d.repo.ResolveReference("HEAD")
	if err != nil {
		return destination.WriteResult{}, err
	}
	if cons != nil {
		cons.Progress("Git Destination: Pushing to " + d.url)
	}
	if _, err := d.repo.Run("push", d.url, "HEAD:"+d.pushRef); err != nil {
		return destination.WriteResult{}, err
	}
	d.logger.Info("pushed migrated commit",
		zap.String("commit", sha.String()), zap.String("push_ref", d.pushRef))
	return destination.WriteResult{Ref: sha.String()}, nil
}

// PreviousRef scans destination history, newest first, for the latest
// value of the given origin label.
func (d *Destination) PreviousRef(labelName string) (string, error) {
	if labelName == "" {
		return "", status.Configf("previous revision discovery requires a label name")
	}
	if err := d.repo.Init(); err != nil {
		return "", err
	}
	hasTip, err := d.fetchTip()
	if err != nil {
		return "", err
	}
	if !hasTip {
		return "", nil
	}
	out, err := d.repo.Run(gitrepo.LogArgs(0, "FETCH_HEAD")...)
	if err != nil {
		return "", err
	}
	entries, err := gitrepo.ParseLog(out)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if value, ok := model.FindLabelValue(entry.Message, labelName); ok {
			return value, nil
		}
	}
	return "", nil
}

// fetchTip fetches the destination fetch ref. A missing remote ref is
// not an error: it means the destination has never been written.
func (d *Destination) fetchTip() (bool, error) {
	err := d.repo.Fetch(d.url, d.fetchRef)
	if err == nil {
		return true, nil
	}
	if strings.Contains(err.Error(), "couldn't find remote ref") {
		return false, nil
	}
	return false, err
}

func (d *Destination) restoreExcluded(worktree *gitrepo.Repository, res destination.TransformResult) error {
	if res.Excludes == nil {
		return nil
	}
	out, err := d.repo.Run("ls-tree", "-r", "--name-only", "FETCH_HEAD")
	if err != nil {
		return err
	}
	var preserved []string
	for _, path := range strings.Split(strings.TrimSpace(out), "\n") {
		if path != "" && res.Excludes.Matches(path) {
			preserved = append(preserved, path)
		}
	}
	if len(preserved) == 0 {
		return nil
	}
	args := append([]string{"checkout", "FETCH_HEAD", "--"}, preserved...)
	_, err = worktree.Run(args...)
	return err
}
