package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		gitRepoStorage string
		gitOriginURL   string
		lastRev        string
		workDir        string
		logLevel       string
		verbose        bool
		force          bool
	}
}

var copybaraFlags flagsT

func addRepoStorageFlag(cmd *cobra.Command) string {
	flag := "git-repo-storage"
	cmd.PersistentFlags().StringVar(&copybaraFlags.root.gitRepoStorage, flag, "",
		"Directory holding the bare git caches (default ~/.copybara/repos)")
	return flag
}

func addGitOriginURLFlag(cmd *cobra.Command) string {
	flag := "git-origin-url"
	cmd.PersistentFlags().StringVar(&copybaraFlags.root.gitOriginURL, flag, "",
		"Override the git origin URL declared in the configuration")
	return flag
}

func addLastRevFlag(cmd *cobra.Command) string {
	flag := "last-rev"
	cmd.PersistentFlags().StringVar(&copybaraFlags.root.lastRev, flag, "",
		"The last origin revision already migrated to the destination")
	return flag
}

func addWorkDirFlag(cmd *cobra.Command) string {
	flag := "work-dir"
	cmd.PersistentFlags().StringVar(&copybaraFlags.root.workDir, flag, "",
		"Directory ephemeral working trees are created under (default the system temp dir)")
	return flag
}

func addVerboseFlag(cmd *cobra.Command) string {
	flag := "verbose"
	cmd.PersistentFlags().BoolVar(&copybaraFlags.root.verbose, flag, false,
		"Verbose output")
	return flag
}

func addLogLevelFlag(cmd *cobra.Command) string {
	flag := "log-level"
	cmd.PersistentFlags().StringVar(&copybaraFlags.root.logLevel, flag, "none",
		"Log level: none, info or debug")
	return flag
}

func addForceFlag(cmd *cobra.Command) string {
	flag := "force"
	cmd.PersistentFlags().BoolVar(&copybaraFlags.root.force, flag, false,
		"Skip interactive confirmation prompts")
	return flag
}
