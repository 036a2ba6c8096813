package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Khankindle/copybara/pkg/status"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "copybara",
	Short: "Copybara migrates code between repositories",
	Long: `Copybara performs one-way source code migrations between version
control repositories: it reads revisions from an origin, applies a
declarative sequence of transformations, and commits the result into a
destination, preserving authorship according to a configurable policy.

Migrations are driven by user-authored configuration files that
instantiate named workflows.
`,
	SilenceUsage: true,
}

// used to patch over calls to os.Exit() during test
var osExit = os.Exit

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(status.ExitConfig)
	}
}

func init() {
	addRepoStorageFlag(rootCmd)
	addGitOriginURLFlag(rootCmd)
	addLastRevFlag(rootCmd)
	addWorkDirFlag(rootCmd)
	addVerboseFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addForceFlag(rootCmd)

	viper.SetEnvPrefix("COPYBARA")
	viper.AutomaticEnv()
}

// defaultRepoStorage is the bare cache root used when --git-repo-storage
// and COPYBARA_GIT_REPO_STORAGE are both unset.
func defaultRepoStorage() string {
	if fromEnv := viper.GetString("GIT_REPO_STORAGE"); fromEnv != "" {
		return fromEnv
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".copybara", "repos")
	}
	return filepath.Join(home, ".copybara", "repos")
}
