// Package transform implements reversible in-place mutations of a
// working tree.
package transform

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/status"
)

// Transformation mutates a working tree in place.
type Transformation interface {
	// Transform applies the mutation to workdir
	Transform(fs afero.Fs, workdir string, cons *console.Console) error

	// Reverse yields the inverse transformation, or a configuration
	// error when the transformation cannot be reversed
	Reverse() (Transformation, error)

	String() string
}

// Sequence applies an ordered list of transformations, stopping at the
// first failure.
type Sequence struct {
	items []Transformation
}

// NewSequence builds a sequence from the given transformations
func NewSequence(items ...Transformation) *Sequence {
	return &Sequence{items: items}
}

// Transform applies each transformation in order
func (s *Sequence) Transform(fs afero.Fs, workdir string, cons *console.Console) error {
	for _, item := range s.items {
		if err := item.Transform(fs, workdir, cons); err != nil {
			return err
		}
	}
	return nil
}

// Reverse returns a sequence of the reversed transformations in
// reverse order.
func (s *Sequence) Reverse() (Transformation, error) {
	reversed, err := Reverse(s.items)
	if err != nil {
		return nil, err
	}
	return &Sequence{items: reversed}, nil
}

func (s *Sequence) String() string {
	parts := make([]string, 0, len(s.items))
	for _, item := range s.items {
		parts = append(parts, item.String())
	}
	return "sequence(" + strings.Join(parts, ", ") + ")"
}

// Reverse returns the list of transformations equivalent to undoing
// all the given transformations: each element reversed, in reverse
// order.
func Reverse(items []Transformation) ([]Transformation, error) {
	reversed := make([]Transformation, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		r, err := items[i].Reverse()
		if err != nil {
			return nil, status.Configf("transformation %s is not reversible", items[i]).Wrap(err)
		}
		reversed = append(reversed, r)
	}
	return reversed, nil
}
