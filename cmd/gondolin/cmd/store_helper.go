package cmd

import (
	"errors"
	"fmt"

	"github.com/needlesslygrim/gondolin/internal/config"
	"github.com/needlesslygrim/gondolin/internal/lockfile"
	"github.com/needlesslygrim/gondolin/internal/store"
)

// acquireLock takes the single-instance lock, turning an AlreadyLocked
// failure into an actionable message. Any other failure is unexpected and
// propagated with context.
func acquireLock() (*lockfile.Lock, error) {
	path := lockfile.DefaultPath()
	lck, err := lockfile.Acquire(path)
	if err != nil {
		if errors.Is(err, lockfile.ErrAlreadyLocked) {
			return nil, fmt.Errorf("another gondolin instance is already running; wait for it to quit, or remove %s if it is stale", path)
		}
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	return lck, nil
}

// releaseLock releases the instance lock, reporting the already-gone marker
// anomaly rather than swallowing it.
func releaseLock(lck *lockfile.Lock) error {
	err := lck.Release()
	if errors.Is(err, lockfile.ErrNotLocked) {
		Warning("The lock marker at %s was already gone; another process may have removed it", lck.Path())
		return err
	}
	return err
}

// openStore opens the configured store. When the file is missing the
// create_missing setting decides between initialising a fresh store and
// telling the user to run init; the store itself never auto-creates.
func openStore(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Store.Path)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, store.ErrStoreNotFound) {
		if cfg.Store.CreateMissing {
			return store.Init(cfg.Store.Path)
		}
		return nil, fmt.Errorf("no store found at %s, run 'gondolin init' first", cfg.Store.Path)
	}
	return nil, fmt.Errorf("open store: %w", err)
}

// withStore runs fn with the store held under the instance lock, then syncs
// and releases. Every data command goes through here and follows the same
// lifecycle as the serve command: lock, open, run, sync, unlock.
func withStore(fn func(*store.Store) error) error {
	cfg, err := config.Load(gondolinHome())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	lck, err := acquireLock()
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		releaseLock(lck)
		return err
	}

	runErr := fn(s)

	if err := s.Sync(); err != nil {
		releaseLock(lck)
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("sync store to disk: %w", err)
	}

	if err := releaseLock(lck); err != nil {
		if runErr != nil {
			return runErr
		}
		return err
	}
	return runErr
}
