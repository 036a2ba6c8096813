package workflow

import (
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/destination"
	"github.com/Khankindle/copybara/pkg/files"
	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/status"
)

// Engine runs workflows. A single engine run is synchronous and owns
// its working directories; the destination write is the sole commit
// point.
type Engine struct {
	registry    *Registry
	cons        *console.Console
	fs          afero.Fs
	workdirRoot string
	logger      *zap.Logger
	force       bool
}

// EngineOption configures an engine
type EngineOption func(*Engine)

// Console sets the console of the run
func Console(c *console.Console) EngineOption {
	return func(e *Engine) {
		e.cons = c
	}
}

// FS sets the filesystem working trees live on. Workflows with git
// endpoints require the OS filesystem, since git subprocesses cannot
// see any other.
func FS(fs afero.Fs) EngineOption {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WorkdirRoot sets the directory ephemeral working trees are created
// under
func WorkdirRoot(dir string) EngineOption {
	return func(e *Engine) {
		e.workdirRoot = dir
	}
}

// Logger sets the logger
func Logger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// Force skips interactive confirmation prompts
func Force() EngineOption {
	return func(e *Engine) {
		e.force = true
	}
}

// NewEngine builds an engine over a frozen workflow registry
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:    registry,
		cons:        console.New(),
		fs:          afero.NewOsFs(),
		workdirRoot: os.TempDir(),
		logger:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// rawRef carries an already-resolved revision string, e.g. one
// recovered from a destination label.
type rawRef string

func (r rawRef) String() string {
	return string(r)
}

// Run executes one migration: resolve the origin reference, determine
// the baseline, enumerate changes, and migrate them in the workflow's
// mode.
func (e *Engine) Run(workflowName, sourceRef string) error {
	w, err := e.registry.Get(workflowName)
	if err != nil {
		return err
	}
	e.logger.Info("running workflow",
		zap.String("workflow", w.Name), zap.String("project", w.Project), zap.String("mode", string(w.Mode)))

	toRef, err := w.Origin.Resolve(sourceRef)
	if err != nil {
		return err
	}
	fromRef, err := e.baseline(w)
	if err != nil {
		return err
	}
	changes, err := w.Origin.Changes(fromRef, toRef)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		if w.Mode == Squash {
			return status.ErrNoWork
		}
		e.cons.Info("No new changes for workflow '%s'", w.Name)
		return nil
	}
	e.cons.Progress("Migrating " + toRef.String())

	switch w.Mode {
	case Squash:
		newest := changes[len(changes)-1]
		return e.migrate(w, destination.TransformResult{
			OriginRef:  toRef,
			Message:    squashMessage(w.Project, changes, w.Origin.LabelName(), toRef),
			Author:     w.Authoring.Resolve(newest.Author),
			AuthorDate: newest.Date,
			Excludes:   w.ExcludeInDestination,
		})
	case Iterative:
		for _, change := range changes {
			err := e.migrate(w, destination.TransformResult{
				OriginRef:  change.Ref,
				Message:    stampMessage(change.Message, w.Origin.LabelName(), change.Ref),
				Author:     w.Authoring.Resolve(change.Author),
				AuthorDate: change.Date,
				Excludes:   w.ExcludeInDestination,
			})
			if err != nil {
				// earlier writes remain committed
				return err
			}
		}
		return nil
	default:
		return status.Configf("invalid workflow mode %q", w.Mode)
	}
}

// baseline determines the reference migrations resume from: the
// command line override when given, otherwise the revision the
// destination last recorded.
func (e *Engine) baseline(w *Workflow) (model.Reference, error) {
	if w.LastRevisionOverride != "" {
		return rawRef(w.LastRevisionOverride), nil
	}
	previous, err := w.Destination.PreviousRef(w.Origin.LabelName())
	if err != nil {
		return nil, err
	}
	if previous == "" {
		return nil, nil
	}
	e.logger.Debug("resuming from destination-recorded revision", zap.String("ref", previous))
	return rawRef(previous), nil
}

// migrate checks out one revision, applies the transformation
// pipeline, and hands the tree to the destination.
func (e *Engine) migrate(w *Workflow, res destination.TransformResult) error {
	workdir := filepath.Join(e.workdirRoot, "copybara-run-"+ksuid.New().String())
	if err := e.fs.MkdirAll(workdir, 0700); err != nil {
		return status.Configf("cannot create workdir %s", workdir).Wrap(err)
	}
	defer func() {
		_ = e.fs.RemoveAll(workdir)
	}()
	res.Workdir = workdir

	if err := w.Origin.Checkout(res.OriginRef, workdir); err != nil {
		return err
	}
	if err := files.DeleteMatching(e.fs, workdir, w.ExcludeInOrigin); err != nil {
		return status.Transformf("delete origin-excluded files").Wrap(err)
	}

	var pristine string
	if w.ReversibleCheck {
		pristine = workdir + ".pristine"
		if err := files.CopyTree(e.fs, workdir, pristine); err != nil {
			return status.Transformf("snapshot tree for the reversible check").Wrap(err)
		}
		defer func() {
			_ = e.fs.RemoveAll(pristine)
		}()
	}

	if err := w.Transform.Transform(e.fs, workdir, e.cons); err != nil {
		return err
	}

	if w.ReversibleCheck {
		if err := e.checkReversible(w, workdir, pristine); err != nil {
			return err
		}
	}

	if w.AskForConfirmation && !e.force {
		proceed, err := e.cons.Confirm("Proceed with the migration to the destination?")
		if err != nil {
			return err
		}
		if !proceed {
			return status.ErrCanceled
		}
	}

	wrote, err := w.Destination.Write(res, e.cons)
	if err != nil {
		return err
	}
	where := wrote.Ref
	if where == "" {
		where = wrote.Path
	}
	e.logger.Info("migrated revision",
		zap.String("origin_ref", res.OriginRef.String()), zap.String("destination", where))
	return nil
}

// checkReversible applies the reverse transformation to a scratch copy
// of the transformed tree and compares against the pre-transform
// snapshot.
func (e *Engine) checkReversible(w *Workflow, workdir, pristine string) error {
	reversed, err := w.Transform.Reverse()
	if err != nil {
		return err
	}
	scratch := workdir + ".reverse"
	if err := files.CopyTree(e.fs, workdir, scratch); err != nil {
		return status.Transformf("copy tree for the reversible check").Wrap(err)
	}
	defer func() {
		_ = e.fs.RemoveAll(scratch)
	}()
	if err := reversed.Transform(e.fs, scratch, e.cons); err != nil {
		return err
	}
	same, diff, err := files.SameTree(e.fs, pristine, scratch)
	if err != nil {
		return err
	}
	if !same {
		return status.Reversibilityf("reversed transformation does not restore the original tree: %s", diff)
	}
	return nil
}
