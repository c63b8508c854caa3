package repository

import "time"

// LayoutRevision records one saved layout snapshot.
type LayoutRevision struct {
	ID      string
	Key     string
	Version int
	Visible int
	Hidden  int
	SavedAt time.Time
}
