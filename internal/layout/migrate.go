package layout

import (
	"fmt"

	"github.com/jask/shopdash/internal/catalog"
)

// MigrationState classifies a persisted snapshot against CurrentVersion.
type MigrationState int

const (
	Stale MigrationState = iota
	Current
)

func (s MigrationState) String() string {
	switch s {
	case Stale:
		return "stale"
	case Current:
		return "current"
	default:
		return fmt.Sprintf("MigrationState(%d)", int(s))
	}
}

// Policy upgrades a stale snapshot to the current version.
type Policy interface {
	Name() string
	Upgrade(prev Snapshot, cat *catalog.Catalog) Snapshot
}

// FullReset discards the stale snapshot wholesale and substitutes the
// factory defaults.
type FullReset struct{}

func (FullReset) Name() string { return "full-reset" }

func (FullReset) Upgrade(_ Snapshot, cat *catalog.Catalog) Snapshot {
	return Defaults(cat)
}

// MigrationResult describes what happened at load.
type MigrationResult struct {
	Found       bool
	State       MigrationState
	FromVersion int
	ToVersion   int
	Policy      string
}

// Migrator dispatches stale snapshots to a policy. Policies registered for a
// specific source version take precedence over Fallback.
type Migrator struct {
	Current  int
	Policies map[int]Policy
	Fallback Policy
}

// NewMigrator returns a migrator that full-resets every stale version.
func NewMigrator() *Migrator {
	return &Migrator{
		Current:  CurrentVersion,
		Policies: map[int]Policy{},
		Fallback: FullReset{},
	}
}

// Register installs p for snapshots persisted at version from.
func (m *Migrator) Register(from int, p Policy) {
	m.Policies[from] = p
}

func (m *Migrator) Classify(version int) MigrationState {
	if version < m.Current {
		return Stale
	}
	return Current
}

// Migrate reconciles a loaded snapshot with the current version. A missing
// snapshot yields the factory defaults; a current or newer one passes
// through unchanged.
func (m *Migrator) Migrate(snap Snapshot, found bool, cat *catalog.Catalog) (Snapshot, MigrationResult) {
	if !found {
		return Defaults(cat), MigrationResult{State: Current, ToVersion: m.Current, Policy: "defaults"}
	}
	res := MigrationResult{Found: true, FromVersion: snap.Version, ToVersion: snap.Version}
	res.State = m.Classify(snap.Version)
	if res.State == Current {
		return snap, res
	}
	p, ok := m.Policies[snap.Version]
	if !ok {
		p = m.Fallback
	}
	if p == nil {
		p = FullReset{}
	}
	out := p.Upgrade(snap.Clone(), cat)
	out.Version = m.Current
	res.ToVersion = m.Current
	res.Policy = p.Name()
	return out, res
}
