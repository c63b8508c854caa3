package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jask/shopdash/internal/catalog"
)

// runCommand executes one command-line entry:
//
//	show <name>|all
//	hide <name>|all
//	expand <name>
//	size <name> <w> <h>
//	edit
//	reset
//
// Widget names are matched with catalog.Resolve, so ids, display names and
// close misspellings all work.
func (a *App) runCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case "edit":
		a.store.ToggleEditMode()
		if !a.store.EditMode() {
			a.drag.End()
		}
		a.afterMutation("edit mode " + onOff(a.store.EditMode()))
		return nil
	case "reset":
		a.openModal(modalConfirmReset)
		return nil
	case "show", "hide":
		name := strings.Join(args, " ")
		if strings.EqualFold(name, "all") {
			if verb == "show" {
				a.store.ShowAll()
				a.afterMutation("all widgets shown")
			} else {
				a.store.HideAll()
				a.selectIndex(0)
				a.afterMutation("all widgets hidden")
			}
			return nil
		}
		w, err := a.resolve(name)
		if err != nil {
			return err
		}
		if verb == "show" {
			a.store.ShowWidget(w.ID)
			a.follow(w.ID)
			a.afterMutation("showing " + w.Name)
		} else {
			a.store.HideWidget(w.ID)
			a.selectIndex(a.sel)
			a.afterMutation("hid " + w.Name)
		}
		return nil
	case "expand":
		w, err := a.resolve(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if !a.store.IsVisible(w.ID) {
			return fmt.Errorf("%s is hidden", w.Name)
		}
		a.store.ToggleExpand(w.ID)
		a.follow(w.ID)
		a.afterMutation("toggled expand on " + w.Name)
		return nil
	case "size":
		if len(args) < 3 {
			return errors.New("usage: size <name> <w> <h>")
		}
		wv, errW := strconv.Atoi(args[len(args)-2])
		hv, errH := strconv.Atoi(args[len(args)-1])
		if errW != nil || errH != nil {
			return errors.New("size: width and height must be integers")
		}
		w, err := a.resolve(strings.Join(args[:len(args)-2], " "))
		if err != nil {
			return err
		}
		a.store.SetWidgetSize(w.ID, wv, hv)
		sz := a.store.Size(w.ID)
		a.afterMutation(fmt.Sprintf("%s is now %dx%d", w.Name, sz.W, sz.H))
		return nil
	}
	return fmt.Errorf("unknown command %q", verb)
}

func (a *App) resolve(name string) (catalog.Widget, error) {
	if strings.TrimSpace(name) == "" {
		return catalog.Widget{}, errors.New("widget name required")
	}
	w, ok := a.store.Catalog().Resolve(name)
	if !ok {
		return catalog.Widget{}, fmt.Errorf("no widget matches %q", name)
	}
	return w, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
