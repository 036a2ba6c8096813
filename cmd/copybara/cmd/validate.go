package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>",
	Short: "Validate a configuration file",
	Long:  "Parse a configuration file and instantiate its workflows without running anything.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cons := newConsole()
		logger := newLogger(cons)
		defer func() {
			_ = logger.Sync()
		}()

		if _, err := loadRegistry(args[0], cons, logger); err != nil {
			fatal(cons, err)
			return
		}
		cons.Info("Configuration '%s' is valid", args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
