package workflow

import (
	"fmt"
	"strings"

	"github.com/Khankindle/copybara/pkg/model"
)

// squashMessage composes the synthetic message of a squash commit:
// one digest line per migrated change (oldest first), the merged label
// set, and the stamped origin revision.
func squashMessage(project string, changes []model.Change, labelName string, toRef model.Reference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imports '%s'.\n\n", project)
	b.WriteString("This change includes the following changes:\n")
	merged := map[string]string{}
	for _, change := range changes {
		fmt.Fprintf(&b, "  - %s %s\n", shortRef(change.Ref), change.FirstLine())
		// oldest first, so the newest occurrence of a label wins
		for name, value := range change.Labels {
			merged[name] = value
		}
	}
	b.WriteString("\n")
	for _, line := range model.FormatLabels(merged) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(model.FormatLabel(labelName, toRef.String()))
	b.WriteString("\n")
	return b.String()
}

// shortRef abbreviates a revision for digest lines, the way git
// abbreviates commit ids. The stamped label keeps the full rendering.
func shortRef(ref model.Reference) string {
	s := ref.String()
	if len(s) > 12 {
		return s[:12]
	}
	return s
}

// stampMessage appends the origin revision label to an iterative
// commit message, separated from prose by a blank line.
func stampMessage(message, labelName string, ref model.Reference) string {
	message = strings.TrimRight(message, "\n")
	stamp := model.FormatLabel(labelName, ref.String())
	if message == "" {
		return stamp + "\n"
	}
	lines := strings.Split(message, "\n")
	if _, _, isLabel := model.ParseLabel(lines[len(lines)-1]); isLabel {
		// extend an existing label block
		return message + "\n" + stamp + "\n"
	}
	return message + "\n\n" + stamp + "\n"
}
