package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Khankindle/copybara/pkg/status"
)

// RepoType adapts reference resolution to the hosting flavor of a git
// repository.
type RepoType string

const (
	// RepoGit is a plain git repository
	RepoGit RepoType = "git"

	// RepoGerrit is a Gerrit-hosted repository: numeric references are
	// changes, resolved to their latest patch set
	RepoGerrit RepoType = "gerrit"

	// RepoGitHub is a GitHub-hosted repository: numeric and pull-URL
	// references resolve through refs/pull/N/head
	RepoGitHub RepoType = "github"
)

// ParseRepoType reads a repo type from its configuration spelling.
// The empty string defaults to plain git.
func ParseRepoType(s string) (RepoType, error) {
	switch RepoType(strings.ToLower(strings.TrimSpace(s))) {
	case "", RepoGit:
		return RepoGit, nil
	case RepoGerrit:
		return RepoGerrit, nil
	case RepoGitHub:
		return RepoGitHub, nil
	default:
		return "", status.Configf("invalid git repository type %q", s)
	}
}

var (
	numericRe   = regexp.MustCompile(`^[0-9]+$`)
	pullURLRe   = regexp.MustCompile(`^https?://github\.com/.+/pull/([0-9]+)`)
	lsRemoteRow = regexp.MustCompile(`^([0-9a-f]{40})\t(\S+)$`)
)

// ResolveRef translates a symbolic reference according to the repo
// type, fetches it, and resolves the fetched head.
func (t RepoType) ResolveRef(repo *Repository, url, ref string) (Reference, error) {
	refspec := ref
	switch t {
	case RepoGitHub:
		if m := pullURLRe.FindStringSubmatch(ref); m != nil {
			refspec = fmt.Sprintf("refs/pull/%s/head", m[1])
		} else if numericRe.MatchString(ref) {
			refspec = fmt.Sprintf("refs/pull/%s/head", ref)
		}
	case RepoGerrit:
		if numericRe.MatchString(ref) {
			change, err := strconv.Atoi(ref)
			if err != nil {
				return Reference{}, status.Configf("invalid change number %q", ref)
			}
			translated, err := latestPatchSet(repo, url, change)
			if err != nil {
				return Reference{}, err
			}
			refspec = translated
		}
	}
	if err := repo.Fetch(url, refspec); err != nil {
		return Reference{}, err
	}
	return repo.ResolveReference("FETCH_HEAD")
}

// latestPatchSet finds the highest refs/changes patch set of a Gerrit
// change on the remote.
func latestPatchSet(repo *Repository, url string, change int) (string, error) {
	pattern := fmt.Sprintf("refs/changes/%02d/%d/*", change%100, change)
	out, err := repo.Run("ls-remote", url, pattern)
	if err != nil {
		return "", err
	}
	best := -1
	var bestRef string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		m := lsRemoteRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		segments := strings.Split(m[2], "/")
		patchSet, err := strconv.Atoi(segments[len(segments)-1])
		if err != nil {
			// refs/changes/NN/change/meta and friends
			continue
		}
		if patchSet > best {
			best = patchSet
			bestRef = m[2]
		}
	}
	if best < 0 {
		return "", status.VCSf("cannot find any patch set for change %d on %s", change, url)
	}
	return bestRef, nil
}
