// Package workflow implements the migration engine: named workflows,
// their registry, and the run orchestration from origin resolution to
// destination write.
package workflow

import (
	"sort"
	"strings"

	"github.com/Khankindle/copybara/pkg/authoring"
	"github.com/Khankindle/copybara/pkg/destination"
	"github.com/Khankindle/copybara/pkg/origin"
	"github.com/Khankindle/copybara/pkg/pathmatch"
	"github.com/Khankindle/copybara/pkg/status"
	"github.com/Khankindle/copybara/pkg/transform"
)

// Mode selects how origin changes map to destination writes.
type Mode string

const (
	// Squash collapses all new changes into one destination commit
	Squash Mode = "SQUASH"

	// Iterative writes one destination commit per origin change
	Iterative Mode = "ITERATIVE"
)

// ParseMode reads a mode from its configuration spelling. The empty
// string defaults to squash.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", Squash:
		return Squash, nil
	case Iterative:
		return Iterative, nil
	default:
		return "", status.Configf("invalid workflow mode %q", s)
	}
}

// Workflow is a named, configured migration pipeline.
type Workflow struct {
	Project              string
	Name                 string
	Origin               origin.Origin
	Destination          destination.Destination
	Authoring            *authoring.Authoring
	Transform            transform.Transformation
	LastRevisionOverride string
	ExcludeInOrigin      *pathmatch.Matcher
	ExcludeInDestination *pathmatch.Matcher
	Mode                 Mode
	ReversibleCheck      bool
	AskForConfirmation   bool
	Verbose              bool
}

// Validate checks the workflow invariants and fills in defaults for
// optional fields.
func (w *Workflow) Validate() error {
	if strings.TrimSpace(w.Project) == "" {
		return status.Configf("empty name for the project is not allowed")
	}
	if strings.TrimSpace(w.Name) == "" {
		return status.Configf("empty name for the workflow is not allowed")
	}
	if w.Origin == nil {
		return status.Configf("workflow %q has no origin", w.Name)
	}
	if w.Destination == nil {
		return status.Configf("workflow %q has no destination", w.Name)
	}
	if w.Authoring == nil {
		return status.Configf("workflow %q has no authoring configuration", w.Name)
	}
	if w.Transform == nil {
		w.Transform = transform.NewSequence()
	}
	if w.ExcludeInOrigin == nil {
		w.ExcludeInOrigin = pathmatch.Empty
	}
	if w.ExcludeInDestination == nil {
		w.ExcludeInDestination = pathmatch.Empty
	}
	if w.Mode == "" {
		w.Mode = Squash
	}
	if w.Mode != Squash && w.Mode != Iterative {
		return status.Configf("invalid workflow mode %q", w.Mode)
	}
	return nil
}

// Registry maps workflow names to workflows. It is populated while
// the configuration is evaluated and read-only afterwards.
type Registry struct {
	workflows map[string]*Workflow
}

// NewRegistry builds an empty registry
func NewRegistry() *Registry {
	return &Registry{workflows: map[string]*Workflow{}}
}

// Register validates a workflow and adds it under its name
func (r *Registry) Register(w *Workflow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if _, ok := r.workflows[w.Name]; ok {
		return status.Configf("workflow %q is defined twice", w.Name)
	}
	r.workflows[w.Name] = w
	return nil
}

// Get looks a workflow up by name
func (r *Registry) Get(name string) (*Workflow, error) {
	w, ok := r.workflows[name]
	if !ok {
		return nil, status.Configf("workflow %q not found in the configuration", name)
	}
	return w, nil
}

// Names returns the registered workflow names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
