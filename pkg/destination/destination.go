// Package destination defines the write side of a migration.
//
// Backends live in subpackages, git and folder.
package destination

import (
	"time"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/model"
	"github.com/Khankindle/copybara/pkg/pathmatch"
)

// TransformResult is the handoff from the workflow engine to a
// destination: a fully transformed tree plus the metadata of the
// migrated revision.
type TransformResult struct {
	// Workdir is the root of the tree to persist
	Workdir string

	// OriginRef is the migrated origin revision
	OriginRef model.Reference

	// Message is the destination commit message
	Message string

	// Author is the policy-resolved author
	Author model.Author

	// AuthorDate is the date of the origin change
	AuthorDate time.Time

	// Excludes matches destination paths that survive the write even
	// when absent from the workdir
	Excludes *pathmatch.Matcher
}

// WriteResult reports where a write landed.
type WriteResult struct {
	// Path of the written tree, for folder destinations
	Path string

	// Ref of the created commit, for git destinations
	Ref string
}

// Destination accepts transformed trees.
type Destination interface {
	// Write applies the staged tree to the destination, governed by
	// the exclusion matcher
	Write(res TransformResult, cons *console.Console) (WriteResult, error)

	// PreviousRef returns the origin revision recorded by the most
	// recent write, discovered through the given origin label. Empty
	// when the destination has no recorded migration.
	PreviousRef(labelName string) (string, error)
}
