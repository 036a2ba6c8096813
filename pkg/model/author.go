package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Khankindle/copybara/pkg/status"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Author of a change: a name plus an optional email address.
type Author struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	_     struct{}
}

// Validate an author: the name is required, the email must look like
// local@domain when present.
func (a Author) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return status.Configf("author name cannot be empty")
	}
	if a.Email != "" && !emailRe.MatchString(a.Email) {
		return status.Configf("invalid author email %q", a.Email)
	}
	return nil
}

// SameEmail compares authors by email, case-insensitively. This is the
// identity used for whitelist membership.
func (a Author) SameEmail(other Author) bool {
	return strings.EqualFold(a.Email, other.Email)
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// ParseAuthor parses the "Name <email>" form produced by git log.
func ParseAuthor(s string) (Author, error) {
	open := strings.LastIndex(s, "<")
	end := strings.LastIndex(s, ">")
	if open < 0 || end < open {
		return Author{}, status.VCSf("invalid author %q, expected 'Name <email>'", s)
	}
	author := Author{
		Name:  strings.TrimSpace(s[:open]),
		Email: strings.TrimSpace(s[open+1 : end]),
	}
	if author.Name == "" {
		return Author{}, status.VCSf("invalid author %q, name is empty", s)
	}
	return author, nil
}
