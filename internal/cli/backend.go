package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/jask/shopdash/internal/catalog"
	"github.com/jask/shopdash/internal/config"
	"github.com/jask/shopdash/internal/database"
	"github.com/jask/shopdash/internal/database/repository"
	"github.com/jask/shopdash/internal/kvstore"
	"github.com/jask/shopdash/internal/layout"
	"github.com/jask/shopdash/internal/prefs"
)

// errNoHistory is returned by history on backends that keep no revisions.
var errNoHistory = errors.New("layout history needs the sqlite backend")

// backend is an opened layout store plus whatever must be closed after it.
type backend struct {
	name    string
	persist layout.Persister
	// history is set for the sqlite backend only.
	history *repository.LayoutRepo
	closers []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{name: cfg.Store.Backend}
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("database dir: %w", err)
		}
		db, err := database.OpenMigrated(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		repo := repository.NewLayoutRepo(db, cfg.Store.Key)
		b.persist, b.history = repo, repo
		b.closers = append(b.closers, db.Close)
	case config.BackendFile:
		b.persist = prefs.NewFileStore(cfg.File.Path)
	case config.BackendRedis:
		rs, err := kvstore.NewStore(ctx, kvstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Store.Key,
		})
		if err != nil {
			return nil, err
		}
		b.persist = rs
		b.closers = append(b.closers, rs.Close)
	case config.BackendMemory:
		b.persist = layout.NewMemoryPersister()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return b, nil
}

// session is everything a command needs to work on the layout.
type session struct {
	cfg     config.Config
	cat     *catalog.Catalog
	backend *backend
	store   *layout.Store
}

func (s *session) Close() error { return s.backend.Close() }

// openSession loads config, catalog and backend and opens the store with
// logger attached.
func (c *CLI) openSession(ctx context.Context, logger *log.Logger) (*session, error) {
	cfg, err := c.settings()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("layout backend opened", "backend", b.name, "key", cfg.Store.Key)
	store := layout.Open(ctx, cat, b.persist, nil, layout.WithLogger(logger))
	return &session{cfg: cfg, cat: cat, backend: b, store: store}, nil
}
