// Package pathmatch compiles include/exclude glob sets into a
// predicate over slash-separated relative paths.
//
// Patterns follow glob syntax where `*` matches any run of characters
// except `/`, `**` matches any run of characters including `/`, `?`
// matches a single character except `/`, `\` escapes the next
// character, and `[...]`/`{a,b}` have their usual meaning. A path
// matches when it matches at least one include pattern and no exclude
// pattern.
package pathmatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Khankindle/copybara/pkg/status"
)

// Matcher is a compiled include/exclude glob set. Matching is
// case-sensitive, deterministic and side-effect free.
type Matcher struct {
	include []string
	exclude []string
	inc     []*regexp.Regexp
	exc     []*regexp.Regexp
}

// Empty matches nothing.
var Empty = &Matcher{}

// New compiles a matcher from include and exclude pattern lists. An
// empty include list matches nothing; an empty exclude list excludes
// nothing.
func New(include, exclude []string) (*Matcher, error) {
	m := &Matcher{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
	}
	for _, pattern := range include {
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, err
		}
		m.inc = append(m.inc, re)
	}
	for _, pattern := range exclude {
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, err
		}
		m.exc = append(m.exc, re)
	}
	return m, nil
}

// MustNew compiles a matcher or panics. For statically known patterns.
func MustNew(include, exclude []string) *Matcher {
	m, err := New(include, exclude)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether a slash-separated relative path matches any
// include pattern and no exclude pattern. A nil matcher matches
// nothing.
func (m *Matcher) Matches(path string) bool {
	if m == nil {
		return false
	}
	matched := false
	for _, re := range m.inc {
		if re.MatchString(path) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, re := range m.exc {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// Equal reports whether two matchers were built from element-wise
// equal (include, exclude) pattern lists.
func (m *Matcher) Equal(other *Matcher) bool {
	if m == nil || other == nil {
		return m == other
	}
	return equalStrings(m.include, other.include) && equalStrings(m.exclude, other.exclude)
}

func (m *Matcher) String() string {
	return fmt.Sprintf("glob(include = [%s], exclude = [%s])",
		strings.Join(m.include, ", "), strings.Join(m.exclude, ", "))
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return status.Configf("glob pattern cannot be empty")
	}
	if strings.HasPrefix(pattern, "/") {
		return status.Configf("glob pattern %q must be relative", pattern)
	}
	for _, segment := range strings.Split(pattern, "/") {
		if segment == ".." {
			return status.Configf("glob pattern %q cannot contain '..' segments", pattern)
		}
	}
	return nil
}

// compileGlob translates a glob pattern into an anchored regexp. The
// translation follows Java's PathMatcher glob syntax, where `**`
// crosses path separators wherever it appears in the pattern.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(`\A`)
	runes := []rune(pattern)
	groupDepth := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				sb.WriteString(`.*`)
				i++
			} else {
				sb.WriteString(`[^/]*`)
			}
		case '?':
			sb.WriteString(`[^/]`)
		case '\\':
			if i+1 >= len(runes) {
				return nil, status.Configf("glob pattern %q has a trailing escape", pattern)
			}
			i++
			sb.WriteString(regexp.QuoteMeta(string(runes[i])))
		case '[':
			end := i + 1
			if end < len(runes) && (runes[end] == '!' || runes[end] == '^') {
				end++
			}
			// a ']' directly after the opening bracket is a literal
			if end < len(runes) && runes[end] == ']' {
				end++
			}
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) {
				return nil, status.Configf("glob pattern %q has an unterminated character class", pattern)
			}
			class := string(runes[i+1 : end])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			sb.WriteString("[" + class + "]")
			i = end
		case '{':
			groupDepth++
			sb.WriteString(`(?:`)
		case '}':
			if groupDepth == 0 {
				sb.WriteString(regexp.QuoteMeta(string(r)))
				break
			}
			groupDepth--
			sb.WriteString(`)`)
		case ',':
			if groupDepth > 0 {
				sb.WriteString(`|`)
			} else {
				sb.WriteString(`,`)
			}
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if groupDepth != 0 {
		return nil, status.Configf("glob pattern %q has an unterminated group", pattern)
	}
	sb.WriteString(`\z`)
	return regexp.Compile(sb.String())
}
