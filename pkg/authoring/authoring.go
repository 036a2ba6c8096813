// Package authoring maps origin authors to destination authors.
package authoring

import (
	"fmt"
	"strings"

	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/status"
)

// Mode selects how origin authors appear in the destination.
type Mode string

const (
	// PassThrough keeps origin authors untouched
	PassThrough Mode = "PASS_THROUGH"

	// UseDefault replaces every origin author with the default author
	UseDefault Mode = "USE_DEFAULT"

	// Whitelist keeps origin authors whose email is whitelisted and
	// replaces the rest with the default author
	Whitelist Mode = "WHITELIST"
)

// ParseMode reads a mode from its configuration spelling.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case PassThrough:
		return PassThrough, nil
	case UseDefault:
		return UseDefault, nil
	case Whitelist:
		return Whitelist, nil
	default:
		return "", status.Configf("invalid authoring mode %q", s)
	}
}

// Authoring resolves destination authors under a configured mode.
type Authoring struct {
	mode          Mode
	defaultAuthor model.Author
	whitelist     map[string]struct{}
}

// New builds an authoring policy. The default author is required for
// every mode but PassThrough; whitelisted emails compare
// case-insensitively.
func New(mode Mode, defaultAuthor model.Author, whitelistedEmails []string) (*Authoring, error) {
	if mode != PassThrough {
		if err := defaultAuthor.Validate(); err != nil {
			return nil, status.Configf("authoring mode %s requires a default author", mode).Wrap(err)
		}
	}
	if mode == Whitelist && len(whitelistedEmails) == 0 {
		return nil, status.Configf("authoring mode %s requires a non-empty whitelist", mode)
	}
	a := &Authoring{
		mode:          mode,
		defaultAuthor: defaultAuthor,
		whitelist:     make(map[string]struct{}, len(whitelistedEmails)),
	}
	for _, email := range whitelistedEmails {
		a.whitelist[strings.ToLower(email)] = struct{}{}
	}
	return a, nil
}

// Mode returns the configured mode
func (a *Authoring) Mode() Mode {
	return a.mode
}

// DefaultAuthor returns the configured default author
func (a *Authoring) DefaultAuthor() model.Author {
	return a.defaultAuthor
}

// Resolve maps an origin author to the author recorded in the
// destination.
func (a *Authoring) Resolve(origin model.Author) model.Author {
	switch a.mode {
	case PassThrough:
		return origin
	case UseDefault:
		return a.defaultAuthor
	case Whitelist:
		if _, ok := a.whitelist[strings.ToLower(origin.Email)]; ok {
			return origin
		}
		return a.defaultAuthor
	default:
		panic(fmt.Sprintf("authoring mode %q not implemented", a.mode))
	}
}
