package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/bitext/internal/core/config"
)

func TestKeyMap_Resolve(t *testing.T) {
	km := NewKeyMap(map[string]config.Keybinding{
		"x": {Action: "commit", Help: "commit it"},
	})

	kb, ok := km.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "commit", kb.Action)

	_, ok = km.Resolve("enter")
	assert.False(t, ok)
}

func TestKeyMap_NilUsesDefaults(t *testing.T) {
	km := NewKeyMap(nil)

	kb, ok := km.Resolve("space")
	require.True(t, ok)
	assert.Equal(t, "toggle_select", kb.Action)
	assert.Equal(t, []string{"l", "right"}, km.KeysFor("step_right"))
}

func TestKeyMap_KeyBindingsGroupByAction(t *testing.T) {
	km := NewKeyMap(map[string]config.Keybinding{
		"j":    {Action: "down", Help: "row down"},
		"down": {Action: "down"},
		"u":    {Action: "undo"},
	})

	bindings := km.KeyBindings()
	require.Len(t, bindings, 2)

	assert.Equal(t, []string{"down", "j"}, bindings[0].Keys())
	assert.Equal(t, "down/j", bindings[0].Help().Key)
	assert.Equal(t, "row down", bindings[0].Help().Desc)

	assert.Equal(t, "undo", bindings[1].Help().Desc, "falls back to the action name")
}

func TestKeyMap_Markdown(t *testing.T) {
	md := NewKeyMap(nil).Markdown()

	assert.Contains(t, md, "| Key | Action |")
	assert.Contains(t, md, "| `enter` | commit selection |")
	assert.Contains(t, md, "| `H/shift+left` | previous token |")
}

func TestKeyMap_Hint(t *testing.T) {
	assert.Equal(t, "space toggle select • enter commit • u undo • ? help • q quit", NewKeyMap(nil).Hint())

	km := NewKeyMap(map[string]config.Keybinding{"w": {Action: "quit"}})
	assert.Equal(t, "w quit", km.Hint())
}
