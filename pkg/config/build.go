package config

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Khankindle/copybara/pkg/authoring"
	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/destination"
	destfolder "github.com/Khankindle/copybara/pkg/destination/folder"
	destgit "github.com/Khankindle/copybara/pkg/destination/git"
	gitrepo "github.com/Khankindle/copybara/pkg/git"
	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/origin"
	originfolder "github.com/Khankindle/copybara/pkg/origin/folder"
	origingit "github.com/Khankindle/copybara/pkg/origin/git"
	"github.com/Khankindle/copybara/pkg/pathmatch"
	"github.com/Khankindle/copybara/pkg/status"
	"github.com/Khankindle/copybara/pkg/transform"
	"github.com/Khankindle/copybara/pkg/workflow"
)

// Options carry the environment the configuration is instantiated in:
// command line overrides and the run's collaborators.
type Options struct {
	// GitRepoStorage is the root of the bare repository caches
	GitRepoStorage string

	// GitOriginURL overrides the configured origin URL; a warning is
	// printed when set
	GitOriginURL string

	// LastRevision overrides baseline discovery on the destination
	LastRevision string

	// WorkingDir roots default folder-destination output paths
	WorkingDir string

	Console *console.Console
	Logger  *zap.Logger
	FS      afero.Fs
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Build instantiates the workflow registry from a parsed
// configuration file.
func (f *File) Build(opts Options) (*workflow.Registry, error) {
	registry := workflow.NewRegistry()
	for name, spec := range f.Workflows {
		w, err := f.buildWorkflow(name, spec, opts)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(w); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (f *File) buildWorkflow(name string, spec Workflow, opts Options) (*workflow.Workflow, error) {
	auth, defaultAuthor, err := buildAuthoring(name, spec.Authoring)
	if err != nil {
		return nil, err
	}
	org, err := buildOrigin(name, spec.Origin, defaultAuthor, opts)
	if err != nil {
		return nil, err
	}
	dest, err := f.buildDestination(name, spec.Destination, opts)
	if err != nil {
		return nil, err
	}
	transformation, err := buildTransformations(name, spec.Transformations)
	if err != nil {
		return nil, err
	}
	excludeInOrigin, err := buildGlob(spec.ExcludeInOrigin)
	if err != nil {
		return nil, err
	}
	excludeInDestination, err := buildGlob(spec.ExcludeInDestination)
	if err != nil {
		return nil, err
	}
	mode, err := workflow.ParseMode(spec.Mode)
	if err != nil {
		return nil, err
	}
	return &workflow.Workflow{
		Project:              f.Project,
		Name:                 name,
		Origin:               org,
		Destination:          dest,
		Authoring:            auth,
		Transform:            transformation,
		LastRevisionOverride: opts.LastRevision,
		ExcludeInOrigin:      excludeInOrigin,
		ExcludeInDestination: excludeInDestination,
		Mode:                 mode,
		ReversibleCheck:      spec.ReversibleCheck,
		AskForConfirmation:   spec.AskForConfirmation,
	}, nil
}

func buildAuthoring(workflowName string, spec Authoring) (*authoring.Authoring, model.Author, error) {
	mode := authoring.PassThrough
	if spec.Mode != "" {
		var err error
		if mode, err = authoring.ParseMode(spec.Mode); err != nil {
			return nil, model.Author{}, err
		}
	}
	var defaultAuthor model.Author
	if spec.Default != "" {
		var err error
		if defaultAuthor, err = model.ParseAuthor(spec.Default); err != nil {
			return nil, model.Author{}, status.Configf(
				"workflow %q: invalid default author %q", workflowName, spec.Default)
		}
	}
	auth, err := authoring.New(mode, defaultAuthor, spec.Whitelist)
	if err != nil {
		return nil, model.Author{}, err
	}
	return auth, defaultAuthor, nil
}

func buildOrigin(workflowName string, spec Endpoint, defaultAuthor model.Author, opts Options) (origin.Origin, error) {
	switch spec.Type {
	case "git":
		url := spec.URL
		if opts.GitOriginURL != "" {
			if opts.Console != nil {
				opts.Console.Warn("Git origin URL overwritten in the command line as %s", opts.GitOriginURL)
			}
			opts.logger().Warn("git origin URL overridden",
				zap.String("config_url", url), zap.String("override", opts.GitOriginURL))
			url = opts.GitOriginURL
		}
		repoType, err := gitrepo.ParseRepoType(spec.RepoType)
		if err != nil {
			return nil, err
		}
		return origingit.New(url, opts.GitRepoStorage,
			origingit.ConfigRef(spec.Ref),
			origingit.Type(repoType),
			origingit.Console(opts.Console),
			origingit.Logger(opts.logger()))
	case "folder":
		folderOpts := []originfolder.Option{originfolder.Logger(opts.logger())}
		if defaultAuthor.Name != "" {
			folderOpts = append(folderOpts, originfolder.Author(defaultAuthor))
		}
		if opts.FS != nil {
			folderOpts = append(folderOpts, originfolder.FS(opts.FS))
		}
		return originfolder.New(spec.Path, folderOpts...)
	default:
		return nil, status.Configf("workflow %q: invalid origin type %q", workflowName, spec.Type)
	}
}

func (f *File) buildDestination(workflowName string, spec Endpoint, opts Options) (destination.Destination, error) {
	switch spec.Type {
	case "git":
		destOpts := []destgit.Option{destgit.Logger(opts.logger())}
		if spec.FetchRef != "" {
			destOpts = append(destOpts, destgit.FetchRef(spec.FetchRef))
		}
		if spec.PushRef != "" {
			destOpts = append(destOpts, destgit.PushRef(spec.PushRef))
		}
		return destgit.New(spec.URL, opts.GitRepoStorage, destOpts...)
	case "folder":
		folderOpts := []destfolder.Option{destfolder.Logger(opts.logger())}
		if spec.Folder != "" {
			folderOpts = append(folderOpts, destfolder.Folder(spec.Folder))
		}
		if opts.WorkingDir != "" {
			folderOpts = append(folderOpts, destfolder.WorkingDir(opts.WorkingDir))
		}
		if opts.FS != nil {
			folderOpts = append(folderOpts, destfolder.FS(opts.FS))
		}
		return destfolder.New(f.Project, folderOpts...)
	default:
		return nil, status.Configf("workflow %q: invalid destination type %q", workflowName, spec.Type)
	}
}

func buildTransformations(workflowName string, specs []Transformation) (transform.Transformation, error) {
	items := make([]transform.Transformation, 0, len(specs))
	for i, spec := range specs {
		switch {
		case spec.Move != nil:
			move, err := transform.NewMove(spec.Move.Before, spec.Move.After)
			if err != nil {
				return nil, err
			}
			items = append(items, move)
		default:
			return nil, status.Configf(
				"workflow %q: transformation #%d declares no operation", workflowName, i+1)
		}
	}
	return transform.NewSequence(items...), nil
}

func buildGlob(spec *Glob) (*pathmatch.Matcher, error) {
	if spec == nil {
		return pathmatch.Empty, nil
	}
	return pathmatch.New(spec.Include, spec.Exclude)
}
