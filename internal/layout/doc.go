// Package layout is the dashboard widget layout engine.
//
// A Store owns one Snapshot: the ordered visible widgets, the hidden ones,
// per-widget size overrides, the expanded set and the edit-mode flag. Column
// and row spans are derived from those and kept in the snapshot so the
// persisted document carries what a renderer needs.
//
// Loading goes through a Migrator. Snapshots persisted at an older schema
// version are handed to a Policy; the only policy today is FullReset, which
// drops the old state and starts from Defaults.
//
// DragController maps pointer drag events onto Store.ReorderWidget.
package layout
