package layout

// DragState is the state of a DragController.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// DragController turns pointer drag events into ReorderWidget calls. The
// reorder happens when the pointer enters another widget, not on drop, so
// every hover commits a mutation. Events outside edit mode are ignored.
type DragController struct {
	store  *Store
	state  DragState
	source WidgetID

	holdWrites bool
	holding    bool
}

// DragOption configures a DragController.
type DragOption func(*DragController)

// WithHoldWrites defers persistence for the duration of a drag; the final
// order is written once when the drag ends.
func WithHoldWrites(hold bool) DragOption {
	return func(d *DragController) { d.holdWrites = hold }
}

func NewDragController(store *Store, opts ...DragOption) *DragController {
	d := &DragController{store: store}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DragController) State() DragState { return d.state }

// Source reports the widget being dragged.
func (d *DragController) Source() (WidgetID, bool) {
	return d.source, d.state == Dragging
}

// Start begins dragging id. It reports whether a drag started.
func (d *DragController) Start(id WidgetID) bool {
	if !d.store.EditMode() || !d.store.IsVisible(id) {
		return false
	}
	if d.state == Dragging {
		d.End()
	}
	d.state, d.source = Dragging, id
	if d.holdWrites {
		d.store.Hold()
		d.holding = true
	}
	return true
}

// Enter handles the pointer entering id. While dragging another widget it
// reorders the source into id's slot and reports true. Leaving edit mode
// mid-drag ends the drag.
func (d *DragController) Enter(id WidgetID) bool {
	if d.state != Dragging {
		return false
	}
	if !d.store.EditMode() {
		d.End()
		return false
	}
	if id == d.source {
		return false
	}
	if !d.store.IsVisible(d.source) || !d.store.IsVisible(id) {
		return false
	}
	d.store.ReorderWidget(d.source, id)
	return true
}

// End returns to Idle. The order is already committed by the last Enter.
func (d *DragController) End() {
	d.state, d.source = Idle, ""
	if d.holding {
		d.holding = false
		d.store.Release()
	}
}

// Drop is End under the name pointer APIs use.
func (d *DragController) Drop() { d.End() }
