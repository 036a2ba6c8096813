package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/Khankindle/copybara/pkg/config"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows <config>",
	Short: "List the workflows of a configuration file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cons := newConsole()

		f, err := config.Load(args[0])
		if err != nil {
			fatal(cons, err)
			return
		}
		cons.Info("Project: %s", f.Project)
		names := make([]string, 0, len(f.Workflows))
		for name := range f.Workflows {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			spec := f.Workflows[name]
			mode := spec.Mode
			if mode == "" {
				mode = "squash"
			}
			cons.Info("  %-20s %s -> %s (%s)", name,
				endpointLabel(spec.Origin), endpointLabel(spec.Destination), mode)
		}
	},
}

func endpointLabel(e config.Endpoint) string {
	switch e.Type {
	case "git":
		return "git:" + e.URL
	case "folder":
		path := e.Path
		if path == "" {
			path = e.Folder
		}
		if path == "" {
			return "folder"
		}
		return "folder:" + path
	default:
		return e.Type
	}
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}
