package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/shopdash/internal/database"
	"github.com/jask/shopdash/internal/layout"
)

// DefaultLayoutKey is the row key the dashboard snapshot lives under.
const DefaultLayoutKey = "shopdash.layout"

// revisionsKept bounds layout_revisions per key.
const revisionsKept = 50

var _ layout.Persister = (*LayoutRepo)(nil)

// LayoutRepo stores the dashboard snapshot in layout_snapshots and appends a
// row to layout_revisions on every save.
type LayoutRepo struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func NewLayoutRepo(db *sql.DB, key string) *LayoutRepo {
	if key == "" {
		key = DefaultLayoutKey
	}
	return &LayoutRepo{db: db, key: key, now: database.Now}
}

func (r *LayoutRepo) Key() string { return r.key }

func (r *LayoutRepo) Load(ctx context.Context) (layout.Snapshot, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT document FROM layout_snapshots WHERE key = ?`, r.key)
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return layout.Snapshot{}, false, nil
		}
		return layout.Snapshot{}, false, fmt.Errorf("load layout %q: %w", r.key, err)
	}
	snap, err := layout.Unmarshal([]byte(doc))
	if err != nil {
		return layout.Snapshot{}, false, fmt.Errorf("load layout %q: %w", r.key, err)
	}
	return snap, true, nil
}

func (r *LayoutRepo) Save(ctx context.Context, snap layout.Snapshot) error {
	doc, err := layout.Marshal(snap)
	if err != nil {
		return err
	}
	rev := uuid.NewString()
	at := r.now().Format(time.RFC3339)

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO layout_snapshots(key, version, document, revision_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
		 version=excluded.version,
		 document=excluded.document,
		 revision_id=excluded.revision_id,
		 updated_at=excluded.updated_at;
		`, r.key, snap.Version, string(doc), rev, at); err != nil {
			return fmt.Errorf("save layout: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO layout_revisions(id, key, version, visible, hidden, saved_at)
		VALUES (?, ?, ?, ?, ?, ?);
		`, rev, r.key, snap.Version, len(snap.Layout), len(snap.Hidden), at); err != nil {
			return fmt.Errorf("record revision: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
		DELETE FROM layout_revisions
		WHERE key = ? AND seq NOT IN (
		 SELECT seq FROM layout_revisions WHERE key = ? ORDER BY seq DESC LIMIT ?
		);
		`, r.key, r.key, revisionsKept); err != nil {
			return fmt.Errorf("trim revisions: %w", err)
		}
		return nil
	})
}

// CurrentRevision returns the revision id of the stored snapshot, or "" when
// nothing is stored.
func (r *LayoutRepo) CurrentRevision(ctx context.Context) (string, error) {
	var rev string
	err := r.db.QueryRowContext(ctx, `SELECT revision_id FROM layout_snapshots WHERE key = ?`, r.key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return rev, err
}

// History lists the most recent revisions, newest first.
func (r *LayoutRepo) History(ctx context.Context, limit int) ([]LayoutRevision, error) {
	if limit <= 0 {
		limit = revisionsKept
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, key, version, visible, hidden, saved_at
	FROM layout_revisions WHERE key = ?
	ORDER BY seq DESC LIMIT ?`, r.key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LayoutRevision
	for rows.Next() {
		var (
			rev LayoutRevision
			at  string
		)
		if err := rows.Scan(&rev.ID, &rev.Key, &rev.Version, &rev.Visible, &rev.Hidden, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			rev.SavedAt = t
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
