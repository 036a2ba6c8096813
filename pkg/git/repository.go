// Package git drives git repositories through the git binary: a bare
// cache per remote URL, reference resolution, fetching, and log
// parsing.
package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/status"
)

var sha1Re = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsSHA1 reports whether s is a complete 40-hex commit id
func IsSHA1(s string) bool {
	return sha1Re.MatchString(s)
}

// Reference is a resolved git revision: a complete SHA-1.
type Reference struct {
	sha string
}

// NewReference wraps a complete 40-hex commit id
func NewReference(sha string) (Reference, error) {
	if !IsSHA1(sha) {
		return Reference{}, status.VCSf("invalid git reference %q, expected a complete SHA-1", sha)
	}
	return Reference{sha: sha}, nil
}

func (r Reference) String() string {
	return r.sha
}

// Repository is a handle on a bare git directory, optionally paired
// with a work tree for checkout and commit operations.
type Repository struct {
	gitDir   string
	workTree string
	logger   *zap.Logger
}

// Option configures a Repository
type Option func(*Repository)

// Logger sets the logger used to trace git invocations
func Logger(l *zap.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// NewBareRepository builds a handle on a bare repository directory.
// The directory may not exist yet; Init creates it.
func NewBareRepository(gitDir string, opts ...Option) *Repository {
	r := &Repository{
		gitDir: gitDir,
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// GitDir returns the bare directory backing this repository
func (r *Repository) GitDir() string {
	return r.gitDir
}

// WithWorkTree returns a handle on the same git directory operating on
// the given work tree.
func (r *Repository) WithWorkTree(dir string) *Repository {
	return &Repository{gitDir: r.gitDir, workTree: dir, logger: r.logger}
}

// Init creates the bare repository if it does not exist yet. Calling
// it on an initialized repository is a no-op.
func (r *Repository) Init() error {
	if _, err := os.Stat(filepath.Join(r.gitDir, "HEAD")); err == nil {
		return nil
	}
	if err := os.MkdirAll(r.gitDir, 0755); err != nil {
		return status.VCSf("create git storage dir %s", r.gitDir).Wrap(err)
	}
	_, err := runGit(r.logger, "", nil, "init", "--bare", r.gitDir)
	return err
}

// Run invokes git against this repository and returns its stdout.
// A non-zero exit becomes a VCS error carrying stderr.
func (r *Repository) Run(args ...string) (string, error) {
	return r.RunWithEnv(nil, args...)
}

// RunWithEnv is Run with additional environment variables of the form
// KEY=VALUE, e.g. committer identity overrides.
func (r *Repository) RunWithEnv(extraEnv []string, args ...string) (string, error) {
	full := []string{"--git-dir", r.gitDir}
	if r.workTree != "" {
		// bare repositories refuse work tree operations unless told otherwise
		full = append(full, "--work-tree", r.workTree, "-c", "core.bare=false")
	}
	full = append(full, args...)
	return runGit(r.logger, r.workTree, extraEnv, full...)
}

// Fetch fetches the given refspecs (or the default refspec when none
// given) from url into this repository.
func (r *Repository) Fetch(url string, refspecs ...string) error {
	args := append([]string{"fetch", "-f", url}, refspecs...)
	_, err := r.Run(args...)
	return err
}

// ResolveReference resolves a revision expression against the local
// object database.
func (r *Repository) ResolveReference(ref string) (Reference, error) {
	out, err := r.Run("rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return Reference{}, status.VCSf("cannot resolve %q in %s", ref, r.gitDir).Wrap(err)
	}
	return NewReference(strings.TrimSpace(out))
}

// Checkout populates the work tree with the exact tree at ref,
// overwriting any previous content.
func (r *Repository) Checkout(ref Reference) error {
	if r.workTree == "" {
		return status.VCSf("checkout requires a work tree")
	}
	_, err := r.Run("checkout", "-q", "-f", ref.String())
	return err
}

func runGit(logger *zap.Logger, dir string, extraEnv []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debug("running git", zap.Strings("args", args))
	err := cmd.Run()
	if err != nil {
		return stdout.String(), status.VCSf("git %s: %s",
			strings.Join(args, " "), strings.TrimSpace(stderr.String())).Wrap(err)
	}
	return stdout.String(), nil
}
