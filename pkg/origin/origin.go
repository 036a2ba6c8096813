// Package origin defines the read side of a migration: resolving
// references, materializing trees, and enumerating changes.
//
// Backends live in subpackages, git and folder.
package origin

import (
	"github.com/Khankindle/copybara/pkg/model"
)

// VisitResult tells a change walk whether to keep going
type VisitResult int

const (
	// Continue visits the first parent next
	Continue VisitResult = iota

	// Terminate stops the walk
	Terminate
)

// Visitor receives changes during a history walk
type Visitor func(model.Change) (VisitResult, error)

// Origin supplies revisions to migrate.
type Origin interface {
	// Resolve turns a reference string into a checkout-able Reference.
	// An empty string selects the configured default reference.
	Resolve(ref string) (model.Reference, error)

	// Checkout populates workdir with the exact tree at ref,
	// removing or overwriting pre-existing content
	Checkout(ref model.Reference, workdir string) error

	// Changes returns the first-parent chain of commits in the
	// half-open range (from, to], oldest first. A nil from returns
	// the history ancestral to to.
	Changes(from, to model.Reference) ([]model.Change, error)

	// Change returns the single change at ref
	Change(ref model.Reference) (model.Change, error)

	// VisitChanges walks the first-parent chain from start toward the
	// root until the visitor terminates or history ends
	VisitChanges(start model.Reference, visit Visitor) error

	// LabelName is the label used to stamp migrated revision ids,
	// e.g. GitOrigin-RevId
	LabelName() string
}
