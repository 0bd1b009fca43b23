package pgmt

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// IO is the narrow logging surface the Driver needs. cmd/pgmt's CLI
// type implements it; tests can supply a fake.
type IO interface {
	Infof(format string, args ...interface{}) (n int, err error)
	Debugf(format string, args ...interface{}) (n int, err error)
}

// Migrate is the top-level orchestrator: it loads scripts from dirs,
// classifies and sorts them, reconciles the forward (V) subset against
// recorded history, and applies whatever remains, one file at a time,
// each in its own transaction.
//
// Only one Migrate call should run against a given database at a time;
// this package takes no advisory lock and does not coordinate with
// other runners.
func Migrate(ctx context.Context, io IO, db *sql.DB, dirs []string, placeholders Placeholders) error {
	store := NewHistoryStore()

	if err := store.EnsureExists(ctx, db); err != nil {
		return fmt.Errorf("ensure schema history table: %w", err)
	}

	loaded, err := Load(dirs)
	if err != nil {
		return fmt.Errorf("load migration scripts: %w", err)
	}

	classified := make([]Migration, 0, len(loaded))
	for _, ls := range loaded {
		m, ok := Classify(ls)
		if !ok {
			io.Debugf("Ignoring unclassifiable file: %s", ls.FileName)
			continue
		}
		classified = append(classified, m)
	}
	sort.SliceStable(classified, func(i, j int) bool {
		return Less(classified[i], classified[j])
	})

	forward := make([]Migration, 0, len(classified))
	for _, m := range classified {
		if m.Kind == KindV {
			forward = append(forward, m)
		}
	}

	history, err := store.ReadAll(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema history: %w", err)
	}

	pending, err := Reconcile(forward, history)
	if err != nil {
		return err
	}

	for _, m := range pending {
		io.Infof("Applying migration: %s", m.FileName)
		if err := apply(ctx, store, db, placeholders, m); err != nil {
			return fmt.Errorf("apply %s: %w", m.FileName, err)
		}
	}

	io.Infof("All migrations applied!")
	return nil
}

// apply records the history row and executes the expanded script in a
// single transaction: either both the bookkeeping insert and the
// schema change land, or neither does.
func apply(ctx context.Context, store *HistoryStore, db *sql.DB, placeholders Placeholders, m Migration) error {
	content, err := Expand(m.Content, placeholders)
	if err != nil {
		return err
	}

	version := m.VersionRaw
	checksum := m.Checksum

	return store.RunInTx(ctx, db, func(tx *sql.Tx) error {
		row := HistoryRow{
			Version:       &version,
			Description:   m.Description,
			Type:          m.Prefix,
			Script:        m.FileName,
			Checksum:      &checksum,
			InstalledBy:   "installed_by",
			InstalledOn:   time.Now().UTC(),
			ExecutionTime: 0,
			Success:       true,
		}
		if _, err := store.Append(ctx, tx, row); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, content); err != nil {
			return fmt.Errorf("execute migration script: %w", err)
		}
		return nil
	})
}
