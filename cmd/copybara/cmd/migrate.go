package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Khankindle/copybara/pkg/config"
	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/dlogger"
	"github.com/Khankindle/copybara/pkg/status"
	"github.com/Khankindle/copybara/pkg/workflow"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <config> <workflow-name> [source-ref]",
	Short: "Run a migration workflow",
	Long: `Run one migration: resolve the source reference in the origin,
transform the tree, and write it to the destination. When source-ref is
omitted, the origin's configured default reference is used.`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		cons := newConsole()
		logger := newLogger(cons)
		defer func() {
			_ = logger.Sync()
		}()

		sourceRef := ""
		if len(args) == 3 {
			sourceRef = args[2]
		}
		registry, err := loadRegistry(args[0], cons, logger)
		if err != nil {
			fatal(cons, err)
			return
		}
		engineOpts := []workflow.EngineOption{
			workflow.Console(cons),
			workflow.Logger(logger),
		}
		if copybaraFlags.root.workDir != "" {
			engineOpts = append(engineOpts, workflow.WorkdirRoot(copybaraFlags.root.workDir))
		}
		if copybaraFlags.root.force {
			engineOpts = append(engineOpts, workflow.Force())
		}
		engine := workflow.NewEngine(registry, engineOpts...)
		if err := engine.Run(args[1], sourceRef); err != nil {
			fatal(cons, err)
			return
		}
		cons.Info("Migration of workflow '%s' finished", args[1])
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// loadRegistry parses the configuration file and instantiates its
// workflows with the command line overrides applied.
func loadRegistry(path string, cons *console.Console, logger *zap.Logger) (*workflow.Registry, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	storage := copybaraFlags.root.gitRepoStorage
	if storage == "" {
		storage = defaultRepoStorage()
	}
	return f.Build(config.Options{
		GitRepoStorage: storage,
		GitOriginURL:   copybaraFlags.root.gitOriginURL,
		LastRevision:   copybaraFlags.root.lastRev,
		Console:        cons,
		Logger:         logger,
	})
}

func newConsole() *console.Console {
	return console.New()
}

func newLogger(cons *console.Console) *zap.Logger {
	level := copybaraFlags.root.logLevel
	if copybaraFlags.root.verbose {
		level = dlogger.LogLevelDebug
	}
	logger, err := dlogger.GetLogger(level)
	if err != nil {
		cons.Warn("invalid log level %q, logging disabled", level)
		return dlogger.MustGetLogger(dlogger.LogLevelNone)
	}
	return logger
}

// fatal reports the error on the console and exits with the code of
// its error kind.
func fatal(cons *console.Console, err error) {
	if status.ExitCode(err) == status.ExitNoWork {
		// not an error, merely nothing to do
		cons.Info("%v", err)
	} else {
		cons.Error("%v", err)
	}
	osExit(status.ExitCode(err))
}
