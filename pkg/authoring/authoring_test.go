package authoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khankindle/copybara/pkg/model"
)

var (
	alice = model.Author{Name: "Alice", Email: "alice@example.com"}
	eve   = model.Author{Name: "Eve", Email: "eve@example.com"}
	bot   = model.Author{Name: "Bot", Email: "bot@x.com"}
)

func TestResolvePassThrough(t *testing.T) {
	a, err := New(PassThrough, model.Author{}, nil)
	require.NoError(t, err)
	assert.Equal(t, alice, a.Resolve(alice))
	assert.Equal(t, eve, a.Resolve(eve))
}

func TestResolveUseDefault(t *testing.T) {
	a, err := New(UseDefault, bot, nil)
	require.NoError(t, err)
	assert.Equal(t, bot, a.Resolve(alice))
	assert.Equal(t, bot, a.Resolve(eve))
}

func TestResolveWhitelist(t *testing.T) {
	a, err := New(Whitelist, bot, []string{"alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, alice, a.Resolve(alice))
	assert.Equal(t, bot, a.Resolve(eve))
}

func TestWhitelistFoldsCase(t *testing.T) {
	a, err := New(Whitelist, bot, []string{"Alice@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, alice, a.Resolve(alice))
}

func TestResolveIsIdempotent(t *testing.T) {
	for _, mode := range []Mode{PassThrough, UseDefault, Whitelist} {
		a, err := New(mode, bot, []string{"alice@example.com"})
		require.NoError(t, err)
		for _, author := range []model.Author{alice, eve, bot} {
			once := a.Resolve(author)
			assert.Equal(t, once, a.Resolve(once), "mode %s author %s", mode, author)
		}
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(UseDefault, model.Author{}, nil)
	assert.Error(t, err, "default author required outside pass-through")

	_, err = New(Whitelist, bot, nil)
	assert.Error(t, err, "whitelist mode requires emails")

	_, err = New(PassThrough, model.Author{}, nil)
	assert.NoError(t, err)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("whitelist")
	require.NoError(t, err)
	assert.Equal(t, Whitelist, mode)

	mode, err = ParseMode(" PASS_THROUGH ")
	require.NoError(t, err)
	assert.Equal(t, PassThrough, mode)

	_, err = ParseMode("nope")
	assert.Error(t, err)
}
