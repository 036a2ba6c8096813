package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// A label is a line of a commit message of the form "Name=Value" or
// "Name: Value" where Name is uppercase, e.g. BUG=1234. Labels carry
// structured metadata through migrated commit messages. Mixed-case
// stamped labels such as GitOrigin-RevId are found with FindLabelValue.

var labelRe = regexp.MustCompile(`^([A-Z][A-Z0-9_-]*)(=|: )[ \t]*(\S.*?)[ \t]*$`)

// ParseLabel extracts a (name, value) label from a single message
// line. ok is false when the line is prose rather than a label.
func ParseLabel(line string) (name, value string, ok bool) {
	m := labelRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[3], true
}

// ExtractLabels scans a full commit message for labels. Duplicate
// names keep the last occurrence.
func ExtractLabels(message string) map[string]string {
	labels := make(map[string]string)
	for _, line := range strings.Split(message, "\n") {
		if name, value, ok := ParseLabel(line); ok {
			labels[name] = value
		}
	}
	return labels
}

// FindLabelValue scans a message for a label with the exact given
// name, in either the Name=Value or the Name: Value form. Unlike
// ExtractLabels, the name is not restricted to the uppercase label
// charset: stamped revision labels such as GitOrigin-RevId are found
// too.
func FindLabelValue(message, name string) (string, bool) {
	for _, line := range strings.Split(message, "\n") {
		if rest, ok := strings.CutPrefix(line, name+"="); ok {
			return strings.TrimSpace(rest), true
		}
		if rest, ok := strings.CutPrefix(line, name+": "); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// FormatLabel renders a label in its canonical Name=Value form.
func FormatLabel(name, value string) string {
	return fmt.Sprintf("%s=%s", name, value)
}

// FormatLabels renders a label set one per line, sorted by name for a
// stable output.
func FormatLabels(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, FormatLabel(name, labels[name]))
	}
	return lines
}
