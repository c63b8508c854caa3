package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key scopes. Bindings in scopeGrid are live whenever no modal is open;
// scopeEdit bindings additionally need edit mode.
const (
	scopeGrid    = "grid"
	scopeEdit    = "edit"
	scopeConfirm = "confirm"
	scopeCommand = "command"
)

// Actions.
const (
	actionQuit        = "quit"
	actionToggleEdit  = "toggle-edit"
	actionExitEdit    = "exit-edit"
	actionReset       = "reset"
	actionSelectLeft  = "select-left"
	actionSelectRight = "select-right"
	actionSelectUp    = "select-up"
	actionSelectDown  = "select-down"
	actionMoveLeft    = "move-left"
	actionMoveRight   = "move-right"
	actionMoveUp      = "move-up"
	actionMoveDown    = "move-down"
	actionHide        = "hide"
	actionExpand      = "expand"
	actionCycleSize   = "cycle-size"
	actionShowAll     = "show-all"
	actionHideAll     = "hide-all"
	actionCommand     = "command"
	actionConfirm     = "confirm"
	actionCancel      = "cancel"
	actionSubmit      = "submit"
	actionClose       = "close"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

// BindingsForScope lists the bindings live in scope, in registration order.
func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Lookup returns the first action bound to the pressed key in any of the
// given scopes, tried in order.
func (r *KeyRegistry) Lookup(msg tea.KeyMsg, scopes ...string) (string, bool) {
	pressed := normalizeKey(msg.String())
	for _, scope := range scopes {
		for _, b := range r.bindings {
			if !scopeMatch(scope, b.Scopes) {
				continue
			}
			if slices.ContainsFunc(b.Keys, func(k string) bool { return normalizeKey(k) == pressed }) {
				return b.Action, true
			}
		}
	}
	return "", false
}

// KeyFor returns the first key bound to action, for help text.
func (r *KeyRegistry) KeyFor(action string) string {
	for _, b := range r.bindings {
		if b.Action == action && len(b.Keys) > 0 {
			return b.Keys[0]
		}
	}
	return ""
}

// Keys are case sensitive: "h" selects, "H" moves.
func normalizeKey(k string) string {
	return strings.TrimSpace(k)
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q", "ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"e"}, Action: actionToggleEdit, Description: "edit", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"R"}, Action: actionReset, Description: "reset", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{":"}, Action: actionCommand, Description: "command", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"left", "h"}, Action: actionSelectLeft, Description: "prev", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"right", "l"}, Action: actionSelectRight, Description: "next", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"up", "k"}, Action: actionSelectUp, Description: "up", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"down", "j"}, Action: actionSelectDown, Description: "down", Scopes: []string{scopeGrid, scopeEdit}},
		{Keys: []string{"esc"}, Action: actionExitEdit, Description: "done", Scopes: []string{scopeEdit}},
		{Keys: []string{"H", "shift+left"}, Action: actionMoveLeft, Description: "move left", Scopes: []string{scopeEdit}},
		{Keys: []string{"L", "shift+right"}, Action: actionMoveRight, Description: "move right", Scopes: []string{scopeEdit}},
		{Keys: []string{"K", "shift+up"}, Action: actionMoveUp, Description: "move up", Scopes: []string{scopeEdit}},
		{Keys: []string{"J", "shift+down"}, Action: actionMoveDown, Description: "move down", Scopes: []string{scopeEdit}},
		{Keys: []string{"x"}, Action: actionHide, Description: "hide", Scopes: []string{scopeEdit}},
		{Keys: []string{"f"}, Action: actionExpand, Description: "expand", Scopes: []string{scopeEdit}},
		{Keys: []string{"s"}, Action: actionCycleSize, Description: "size", Scopes: []string{scopeEdit}},
		{Keys: []string{"a"}, Action: actionShowAll, Description: "show all", Scopes: []string{scopeEdit}},
		{Keys: []string{"A"}, Action: actionHideAll, Description: "hide all", Scopes: []string{scopeEdit}},
		{Keys: []string{"y", "Y"}, Action: actionConfirm, Description: "yes", Scopes: []string{scopeConfirm}},
		{Keys: []string{"n", "N", "esc"}, Action: actionCancel, Description: "no", Scopes: []string{scopeConfirm}},
		{Keys: []string{"esc"}, Action: actionClose, Description: "close", Scopes: []string{scopeCommand}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "run", Scopes: []string{scopeCommand}},
	}
}

// ApplyActionKeybindings replaces the keys of every binding whose action
// appears in actionKeys. Unknown actions are ignored.
func ApplyActionKeybindings(bindings []KeyBinding, actionKeys map[string][]string) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		next := KeyBinding{
			Keys:        slices.Clone(b.Keys),
			Action:      b.Action,
			Description: b.Description,
			Scopes:      slices.Clone(b.Scopes),
		}
		if keys, ok := actionKeys[b.Action]; ok && len(keys) > 0 {
			next.Keys = slices.Clone(keys)
		}
		out = append(out, next)
	}
	return out
}
