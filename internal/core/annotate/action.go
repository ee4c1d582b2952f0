package annotate

import "fmt"

// Action is an abstract input the session understands.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionStepLeft
	ActionStepRight
	ActionRawLeft
	ActionRawRight
	ActionUp
	ActionDown
	ActionSwitchSide
	ActionToggleSelect
	ActionClearSelection
	ActionCommit
	ActionUndo
	ActionDeleteEntry
	ActionToggleContinuous
	ActionCancel
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionQuit:             "quit",
	ActionStepLeft:         "step_left",
	ActionStepRight:        "step_right",
	ActionRawLeft:          "raw_left",
	ActionRawRight:         "raw_right",
	ActionUp:               "up",
	ActionDown:             "down",
	ActionSwitchSide:       "switch_side",
	ActionToggleSelect:     "toggle_select",
	ActionClearSelection:   "clear_selection",
	ActionCommit:           "commit",
	ActionUndo:             "undo",
	ActionDeleteEntry:      "delete_entry",
	ActionToggleContinuous: "toggle_continuous",
	ActionCancel:           "cancel",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction returns the action named name, as used in config keymaps.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Actions returns every action except ActionNone in declaration order.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames)-1)
	for a := ActionQuit; a <= ActionCancel; a++ {
		out = append(out, a)
	}
	return out
}
