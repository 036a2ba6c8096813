package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsole(input string) (*Console, *strings.Builder) {
	var out strings.Builder
	return New(WithOutput(&out), WithInput(strings.NewReader(input)), NoColor()), &out
}

func TestOutput(t *testing.T) {
	c, out := testConsole("")
	c.Progress("fetching")
	c.Info("plain %d", 42)
	c.Warn("careful")
	c.Error("broken")

	text := out.String()
	assert.Contains(t, text, "Task fetching\n")
	assert.Contains(t, text, "plain 42\n")
	assert.Contains(t, text, "WARNING: careful\n")
	assert.Contains(t, text, "ERROR: broken\n")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"", false}, // EOF counts as no
	}
	for _, tt := range tests {
		c, out := testConsole(tt.answer)
		got, err := c.Confirm("Proceed?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
		assert.Contains(t, out.String(), "Proceed? [y/N] ")
	}
}
