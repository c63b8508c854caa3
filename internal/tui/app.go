// Package tui is the terminal host for the layout engine: it draws the
// widget grid and turns keys and mouse events into Store operations.
package tui

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jask/shopdash/internal/layout"
)

const (
	chromeHeight = 3 // header, status, footer
	gridRow      = 5
	gridGap      = 1
	fallbackW    = 80
	fallbackH    = 24
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
	modalCommand      modalState = "command"
)

// Options configures an App.
type Options struct {
	// Keys overrides default key bindings per action.
	Keys map[string][]string
	// HoldWritesDuringDrag persists a drag once on release instead of on
	// every hover.
	HoldWritesDuringDrag bool
	Logger               *log.Logger
}

// App is the bubbletea model for the dashboard.
type App struct {
	ctx    context.Context
	store  *layout.Store
	drag   *layout.DragController
	keys   *KeyRegistry
	logger *log.Logger

	width, height int
	sel           int
	scroll        int

	modal     modalState
	input     textinput.Model
	status    string
	statusErr bool
}

func New(ctx context.Context, store *layout.Store, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	in := textinput.New()
	in.Prompt = ":"
	in.Placeholder = "show <name> | hide <name> | size <name> <w> <h> | expand <name>"
	in.CharLimit = 128

	a := &App{
		ctx:    ctx,
		store:  store,
		drag:   layout.NewDragController(store, layout.WithHoldWrites(opts.HoldWritesDuringDrag)),
		keys:   NewKeyRegistry(ApplyActionKeybindings(DefaultKeyBindings(), opts.Keys)),
		logger: logger,
		input:  in,
	}
	if res := store.Migration(); res.Found && res.State == layout.Stale {
		a.status = fmt.Sprintf("layout v%d was reset to defaults (%s)", res.FromVersion, res.Policy)
	}
	if err := store.Err(); err != nil {
		a.setErr(err)
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.ensureVisible()
		return a, nil
	case tea.KeyMsg:
		switch a.modal {
		case modalConfirmReset:
			return a.handleConfirmKey(m)
		case modalCommand:
			return a.handleCommandKey(m)
		}
		return a.handleKey(m)
	case tea.MouseMsg:
		if a.modal == modalNone {
			a.handleMouse(m)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) scope() string {
	if a.store.EditMode() {
		return scopeEdit
	}
	return scopeGrid
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, ok := a.keys.Lookup(m, a.scope())
	if !ok {
		return a, nil
	}
	id, hasSel := a.selected()
	switch action {
	case actionQuit:
		a.drag.End()
		return a, tea.Quit
	case actionToggleEdit:
		a.store.ToggleEditMode()
		if a.store.EditMode() {
			a.afterMutation("editing layout")
		} else {
			a.drag.End()
			a.afterMutation("layout saved")
		}
	case actionExitEdit:
		a.drag.End()
		a.store.SetEditMode(false)
		a.afterMutation("layout saved")
	case actionReset:
		a.openModal(modalConfirmReset)
	case actionCommand:
		a.openModal(modalCommand)
		a.input.SetValue("")
		return a, a.input.Focus()
	case actionSelectLeft:
		a.selectIndex(a.sel - 1)
	case actionSelectRight:
		a.selectIndex(a.sel + 1)
	case actionSelectUp:
		a.selectVertical(-1)
	case actionSelectDown:
		a.selectVertical(1)
	case actionMoveLeft, actionMoveRight, actionMoveUp, actionMoveDown:
		if hasSel {
			dir := map[string]layout.Direction{
				actionMoveLeft: layout.Left, actionMoveRight: layout.Right,
				actionMoveUp: layout.Up, actionMoveDown: layout.Down,
			}[action]
			a.store.MoveWidget(id, dir)
			a.follow(id)
			a.afterMutation(fmt.Sprintf("moved %s %s", a.name(id), dir))
		}
	case actionHide:
		if hasSel {
			a.store.HideWidget(id)
			a.selectIndex(a.sel)
			a.afterMutation("hid " + a.name(id))
		}
	case actionExpand:
		if hasSel {
			a.store.ToggleExpand(id)
			verb := "collapsed "
			if a.store.IsExpanded(id) {
				verb = "expanded "
			}
			a.afterMutation(verb + a.name(id))
		}
	case actionCycleSize:
		if hasSel {
			next := nextSize(a.store.Size(id))
			a.store.SetWidgetSize(id, next.W, next.H)
			a.afterMutation(fmt.Sprintf("%s is now %dx%d", a.name(id), next.W, next.H))
		}
	case actionShowAll:
		a.store.ShowAll()
		a.afterMutation("all widgets shown")
	case actionHideAll:
		a.store.HideAll()
		a.selectIndex(0)
		a.afterMutation("all widgets hidden")
	}
	return a, nil
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := a.keys.Lookup(m, scopeConfirm)
	switch action {
	case actionConfirm:
		a.modal = modalNone
		a.drag.End()
		a.store.ResetLayout()
		a.sel, a.scroll = 0, 0
		a.afterMutation("layout reset to defaults")
	case actionCancel:
		a.modal = modalNone
		a.status, a.statusErr = "reset cancelled", false
	}
	return a, nil
}

func (a *App) handleCommandKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, _ := a.keys.Lookup(m, scopeCommand)
	switch action {
	case actionClose:
		a.closeCommand()
		return a, nil
	case actionSubmit:
		line := a.input.Value()
		a.closeCommand()
		if err := a.runCommand(line); err != nil {
			a.logger.Debug("command failed", "line", line, "err", err)
			a.setErr(err)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

// openModal ends any drag first: mouse events are not routed while a modal
// is up, so the release would never reach the drag controller.
func (a *App) openModal(m modalState) {
	a.drag.End()
	a.modal = m
}

// Close ends a drag still in progress so held writes reach the store. Call
// it after the program exits.
func (a *App) Close() {
	a.drag.End()
}

func (a *App) closeCommand() {
	a.modal = modalNone
	a.input.Blur()
}

func (a *App) handleMouse(m tea.MouseMsg) {
	switch {
	case m.Button == tea.MouseButtonWheelUp:
		a.scroll = max(0, a.scroll-1)
		return
	case m.Button == tea.MouseButtonWheelDown:
		a.scroll = min(a.maxScroll(), a.scroll+1)
		return
	}
	id, hit := a.hitTest(m.X, m.Y)
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft || !hit {
			return
		}
		a.follow(id)
		if a.drag.Start(id) {
			a.status, a.statusErr = "dragging "+a.name(id), false
		}
	case tea.MouseActionMotion:
		src, dragging := a.drag.Source()
		if !dragging || !hit {
			return
		}
		if a.drag.Enter(id) {
			a.follow(src)
			a.afterMutation(fmt.Sprintf("dragging %s over %s", a.name(src), a.name(id)))
		}
	case tea.MouseActionRelease:
		if src, dragging := a.drag.Source(); dragging {
			a.drag.Drop()
			a.afterMutation("dropped " + a.name(src))
		}
	}
}

// afterMutation reports msg, or the persistence failure if the last write
// did not land.
func (a *App) afterMutation(msg string) {
	if err := a.store.Err(); err != nil {
		a.setErr(fmt.Errorf("layout not saved: %w", err))
		return
	}
	a.status, a.statusErr = msg, false
	a.ensureVisible()
}

func (a *App) setErr(err error) {
	a.status, a.statusErr = err.Error(), true
}

func (a *App) name(id layout.WidgetID) string { return a.store.Catalog().Name(id) }

// ---------------------------------------------------------------------------
// Selection and geometry
// ---------------------------------------------------------------------------

func (a *App) selected() (layout.WidgetID, bool) {
	ids := a.store.Layout()
	if a.sel < 0 || a.sel >= len(ids) {
		return "", false
	}
	return ids[a.sel], true
}

func (a *App) selectIndex(i int) {
	n := len(a.store.Layout())
	a.sel = min(max(i, 0), max(n-1, 0))
	a.ensureVisible()
}

func (a *App) follow(id layout.WidgetID) {
	if i := slices.Index(a.store.Layout(), id); i >= 0 {
		a.sel = i
	}
	a.ensureVisible()
}

// selectVertical moves the selection to the nearest tile fully above
// (dir < 0) or below (dir > 0) the current one, preferring horizontal
// overlap.
func (a *App) selectVertical(dir int) {
	frames := a.grid().Frames(a.viewWidth())
	if a.sel < 0 || a.sel >= len(frames) {
		return
	}
	cur := frames[a.sel]
	best, bestScore := -1, 0
	for i, f := range frames {
		var gap int
		switch {
		case dir < 0 && f.Y+f.H <= cur.Y:
			gap = cur.Y - (f.Y + f.H)
		case dir > 0 && f.Y >= cur.Y+cur.H:
			gap = f.Y - (cur.Y + cur.H)
		default:
			continue
		}
		dx := abs((f.X + f.W/2) - (cur.X + cur.W/2))
		score := gap*1000 + dx
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		a.selectIndex(best)
	}
}

func (a *App) viewWidth() int {
	if a.width > 0 {
		return a.width
	}
	return fallbackW
}

func (a *App) gridHeight() int {
	h := a.height
	if h <= 0 {
		h = fallbackH
	}
	return max(1, h-chromeHeight)
}

func (a *App) maxScroll() int {
	return max(0, a.grid().Height(a.viewWidth())-a.gridHeight())
}

// ensureVisible scrolls so the selected tile is on screen.
func (a *App) ensureVisible() {
	frames := a.grid().Frames(a.viewWidth())
	if a.sel >= len(frames) {
		a.sel = max(len(frames)-1, 0)
	}
	if len(frames) == 0 {
		a.scroll = 0
		return
	}
	f, h := frames[a.sel], a.gridHeight()
	if f.Y < a.scroll {
		a.scroll = f.Y
	} else if f.Y+f.H > a.scroll+h {
		a.scroll = min(f.Y, f.Y+f.H-h)
	}
	a.scroll = min(max(a.scroll, 0), a.maxScroll())
}

// hitTest maps a terminal cell to the widget drawn there. The grid starts
// below the header line.
func (a *App) hitTest(x, y int) (layout.WidgetID, bool) {
	y--
	if y < 0 || y >= a.gridHeight() {
		return "", false
	}
	g := a.grid()
	i := g.HitTest(a.viewWidth(), x, y)
	if i < 0 {
		return "", false
	}
	return layout.WidgetID(g.Items[i].Key), true
}

func nextSize(cur layout.Size) layout.Size {
	cycle := []layout.Size{{W: 1, H: 1}, {W: 2, H: 1}, {W: 1, H: 2}, {W: 2, H: 2}}
	for i, s := range cycle {
		if s == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var _ tea.Model = (*App)(nil)
