package git

import (
	"strconv"
	"strings"
	"time"

	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/status"
)

// the prefix git log puts in front of every message line
const logCommentPrefix = "    "

// LogEntry is one commit parsed from git log output, newest first.
type LogEntry struct {
	Ref     Reference
	Parents []Reference
	Author  model.Author
	Date    time.Time
	Message string
	Labels  map[string]string
}

// LogArgs returns the canonical git log invocation whose output
// ParseLog understands. limit <= 0 means no limit.
func LogArgs(limit int, refExpression string) []string {
	args := []string{"log", "--no-color", "--date=iso-strict"}
	if limit > 0 {
		args = append(args, "-"+strconv.Itoa(limit))
	}
	args = append(args, "--parents", "--first-parent", refExpression)
	return args
}

// ParseLog parses the output of the invocation built by LogArgs into
// log entries, newest first. Labels are extracted from the stripped
// message lines, last occurrence winning.
func ParseLog(out string) ([]LogEntry, error) {
	// no changes at all produces no output
	if out == "" {
		return nil, nil
	}
	lines := strings.Split(out, "\n")
	var entries []LogEntry
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		if !strings.HasPrefix(lines[i], "commit ") {
			return nil, status.VCSf("cannot find 'commit' in log line %q", lines[i])
		}
		shas := strings.Fields(strings.TrimPrefix(lines[i], "commit "))
		if len(shas) == 0 {
			return nil, status.VCSf("empty commit line in log output")
		}
		entry := LogEntry{Labels: map[string]string{}}
		var err error
		if entry.Ref, err = NewReference(shas[0]); err != nil {
			return nil, err
		}
		for _, parent := range shas[1:] {
			ref, err := NewReference(parent)
			if err != nil {
				return nil, err
			}
			entry.Parents = append(entry.Parents, ref)
		}
		i++

		// header lines up to the blank separator
		var haveAuthor, haveDate bool
		for i < len(lines) && lines[i] != "" {
			switch {
			case strings.HasPrefix(lines[i], "Author:"):
				entry.Author, err = model.ParseAuthor(strings.TrimSpace(strings.TrimPrefix(lines[i], "Author:")))
				if err != nil {
					return nil, err
				}
				haveAuthor = true
			case strings.HasPrefix(lines[i], "Date:"):
				entry.Date, err = parseISOStrict(strings.TrimSpace(strings.TrimPrefix(lines[i], "Date:")))
				if err != nil {
					return nil, err
				}
				haveDate = true
			}
			i++
		}
		if !haveAuthor && !haveDate {
			return nil, status.VCSf("could not find author and date for commit %s in log output", entry.Ref)
		}
		i++ // blank line before the message

		var message strings.Builder
		for i < len(lines) && strings.HasPrefix(lines[i], logCommentPrefix) {
			stripped := strings.TrimPrefix(lines[i], logCommentPrefix)
			if name, value, ok := model.ParseLabel(stripped); ok {
				entry.Labels[name] = value
			}
			message.WriteString(stripped)
			message.WriteString("\n")
			i++
		}
		entry.Message = message.String()
		entries = append(entries, entry)

		// blank separator between commits
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
	}
	return entries, nil
}

func parseISOStrict(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, status.VCSf("cannot parse commit date %q", s).Wrap(err)
	}
	return t, nil
}
