package transform

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/console"
	"github.com/Khankindle/copybara/pkg/errors"
	"github.com/Khankindle/copybara/pkg/files"
	"github.com/Khankindle/copybara/pkg/status"
)

func mustMove(t *testing.T, before, after string) *Move {
	t.Helper()
	m, err := NewMove(before, after)
	require.NoError(t, err)
	return m
}

func TestSequenceAppliesInOrder(t *testing.T) {
	fs := setupTree(t, map[string]string{"a.txt": "a"})
	seq := NewSequence(
		mustMove(t, "a.txt", "b.txt"),
		mustMove(t, "b.txt", "c/d.txt"),
	)

	require.NoError(t, seq.Transform(fs, "/w", nil))
	assert.Equal(t, []string{"c/d.txt"}, treePaths(t, fs))
}

func TestSequenceStopsAtFirstFailure(t *testing.T) {
	fs := setupTree(t, map[string]string{"a.txt": "a"})
	seq := NewSequence(
		mustMove(t, "missing.txt", "x.txt"),
		mustMove(t, "a.txt", "b.txt"),
	)

	err := seq.Transform(fs, "/w", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTransform))

	// the second move never ran
	assert.Equal(t, []string{"a.txt"}, treePaths(t, fs))
}

func TestSequenceReverseRoundTrip(t *testing.T) {
	fs := setupTree(t, map[string]string{
		"src/a.txt":   "a",
		"src/b/c.txt": "c",
		"top.txt":     "t",
	})
	require.NoError(t, files.CopyTree(fs, "/w", "/orig"))

	seq := NewSequence(
		mustMove(t, "src", "lib"),
		mustMove(t, "top.txt", "lib/top.txt"),
	)
	require.NoError(t, seq.Transform(fs, "/w", nil))

	reversed, err := seq.Reverse()
	require.NoError(t, err)
	require.NoError(t, reversed.Transform(fs, "/w", nil))

	same, diff, err := files.SameTree(fs, "/orig", "/w")
	require.NoError(t, err)
	assert.True(t, same, diff)
}

type irreversible struct{}

func (irreversible) Transform(afero.Fs, string, *console.Console) error {
	return nil
}

func (irreversible) Reverse() (Transformation, error) {
	return nil, status.Configf("one-way transformation cannot be reversed")
}

func (irreversible) String() string { return "one-way" }

func TestReverseListOrderAndErrors(t *testing.T) {
	a := mustMove(t, "a", "b")
	c := mustMove(t, "c", "d")

	reversed, err := Reverse([]Transformation{a, c})
	require.NoError(t, err)
	require.Len(t, reversed, 2)
	assert.Equal(t, "Moving d to c", reversed[0].String())
	assert.Equal(t, "Moving b to a", reversed[1].String())

	_, err = Reverse([]Transformation{a, irreversible{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConfig))
}
