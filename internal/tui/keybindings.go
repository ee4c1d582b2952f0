package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/colonyops/bitext/internal/core/config"
)

// KeyMap resolves key presses to configured actions.
type KeyMap struct {
	keybindings map[string]config.Keybinding
}

// NewKeyMap creates a key map from configured keybindings. A nil map falls
// back to the built-in defaults.
func NewKeyMap(keybindings map[string]config.Keybinding) KeyMap {
	if keybindings == nil {
		keybindings = config.DefaultKeybindings()
	}
	return KeyMap{keybindings: keybindings}
}

// Resolve returns the keybinding for a key string as produced by
// tea.KeyPressMsg.String.
func (k KeyMap) Resolve(keyStr string) (config.Keybinding, bool) {
	kb, ok := k.keybindings[keyStr]
	return kb, ok
}

// KeysFor returns the sorted keys bound to an action.
func (k KeyMap) KeysFor(action string) []string {
	var keys []string
	for name, kb := range k.keybindings {
		if kb.Action == action {
			keys = append(keys, name)
		}
	}
	slices.Sort(keys)
	return keys
}

// KeyBindings returns one key.Binding per action, with every key bound to
// it, ordered by action name.
func (k KeyMap) KeyBindings() []key.Binding {
	byAction := map[string][]string{}
	help := map[string]string{}
	for _, name := range slices.Sorted(maps.Keys(k.keybindings)) {
		kb := k.keybindings[name]
		byAction[kb.Action] = append(byAction[kb.Action], name)
		if help[kb.Action] == "" {
			help[kb.Action] = kb.Help
		}
	}

	actions := slices.Sorted(maps.Keys(byAction))
	bindings := make([]key.Binding, 0, len(actions))
	for _, action := range actions {
		desc := help[action]
		if desc == "" {
			desc = action
		}
		keys := byAction[action]
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), desc),
		))
	}
	return bindings
}

// Markdown renders the key map as a markdown table.
func (k KeyMap) Markdown() string {
	var b strings.Builder
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, binding := range k.KeyBindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	return b.String()
}

// Hint returns a short one-line summary of the most used keys.
func (k KeyMap) Hint() string {
	var parts []string
	for _, action := range []string{"toggle_select", "commit", "undo", config.ActionHelp, "quit"} {
		keys := k.KeysFor(action)
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, keys[0]+" "+strings.ReplaceAll(action, "_", " "))
	}
	return strings.Join(parts, " • ")
}
