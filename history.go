package pgmt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/blockloop/scan"
	"github.com/jackc/pgconn"
)

// HistoryTable is the name of the bookkeeping table this package owns.
const HistoryTable = "_schema_history"

// pq builds every statement this package issues, dollar-placeholdered
// for PostgreSQL, the same builder the teacher uses for its queries.
var pq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// HistoryRow is one recorded migration attempt.
type HistoryRow struct {
	InstalledRank int64      `db:"installed_rank"`
	Version       *string    `db:"version"`
	Description   string     `db:"description"`
	Type          string     `db:"type"`
	Script        string     `db:"script"`
	Checksum      *int32     `db:"checksum"`
	InstalledBy   string     `db:"installed_by"`
	InstalledOn   time.Time  `db:"installed_on"`
	ExecutionTime int32      `db:"execution_time"`
	Success       bool       `db:"success"`
}

// Queryable is satisfied by both *sql.DB and *sql.Tx, so the History
// Store can run the same statements whether or not it's inside a
// transaction.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// HistoryStore encapsulates the _schema_history table. It is the only
// component in this package that speaks SQL; Reconcile and Migrate only
// ever see HistoryRow values.
type HistoryStore struct{}

// NewHistoryStore returns a ready-to-use HistoryStore. It holds no
// state of its own.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// EnsureExists creates the history table if it's absent. Idempotent,
// but not transactional with a concurrent first-time runner: two
// runners racing a fresh database may both attempt the CREATE TABLE and
// one will fail (see the concurrency note on Migrate).
func (s *HistoryStore) EnsureExists(ctx context.Context, db Queryable) error {
	exists, err := s.tableExists(ctx, db)
	if err != nil {
		return fmt.Errorf("check for history table: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, createHistoryTableSQL); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *HistoryStore) tableExists(ctx context.Context, db Queryable) (bool, error) {
	query, args, err := pq.Select().
		Column("EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = "+sq.Placeholders(1)+")", HistoryTable).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ReadAll returns every history row ordered by installed_rank
// ascending. A missing table reads as an empty sequence; callers that
// haven't just ensured the table exists should treat that as
// unexpected.
func (s *HistoryStore) ReadAll(ctx context.Context, db Queryable) ([]HistoryRow, error) {
	query, args, err := pq.Select(
		"installed_rank", "version", "description", "type", "script",
		"checksum", "installed_by", "installed_on", "execution_time", "success",
	).From(HistoryTable).OrderBy("installed_rank asc").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schema history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	if err := scan.RowsStrict(&out, rows); err != nil {
		return nil, fmt.Errorf("scan schema history: %w", err)
	}
	return out, nil
}

// Append inserts one history row and returns its server-assigned
// installed_rank.
func (s *HistoryStore) Append(ctx context.Context, tx Queryable, row HistoryRow) (int64, error) {
	query, args, err := pq.Insert(HistoryTable).
		Columns("version", "description", "type", "script", "checksum", "installed_by", "installed_on", "execution_time", "success").
		Values(row.Version, row.Description, row.Type, row.Script, row.Checksum, row.InstalledBy, row.InstalledOn, row.ExecutionTime, row.Success).
		Suffix("RETURNING installed_rank").
		ToSql()
	if err != nil {
		return 0, err
	}

	var rank int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&rank); err != nil {
		return 0, fmt.Errorf("insert schema history row: %w", err)
	}
	return rank, nil
}

// RunInTx begins a transaction, runs fn, and commits on success or
// rolls back on any error fn returns (including one raised by a script
// fn executes). Releasing the transaction without a commit implicitly
// rolls it back, so a cancelled context between files never leaves a
// half-applied migration.
func (s *HistoryStore) RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback also failed: %s)", err, rerr)
		}
		return err
	}

	return tx.Commit()
}

const createHistoryTableSQL = `
CREATE TABLE ` + HistoryTable + ` (
	installed_rank SERIAL PRIMARY KEY,
	version VARCHAR(50) NULL,
	description VARCHAR(200) NOT NULL,
	type VARCHAR(20) NOT NULL,
	script VARCHAR(1000) NOT NULL,
	checksum INT NULL,
	installed_by VARCHAR(100) NOT NULL,
	installed_on TIMESTAMPTZ NOT NULL DEFAULT now(),
	execution_time INT NOT NULL,
	success BOOLEAN NOT NULL
);

COMMENT ON COLUMN ` + HistoryTable + `.installed_rank IS 'Execution order rank (primary key); increments with each migration';
COMMENT ON COLUMN ` + HistoryTable + `.version IS 'Version of the migration (e.g., 1.0, 2.1.3). Null for repeatable migrations';
COMMENT ON COLUMN ` + HistoryTable + `.description IS 'Human-readable description of the migration (e.g., Create users table)';
COMMENT ON COLUMN ` + HistoryTable + `.type IS 'Type of migration (e.g., V, U, R)';
COMMENT ON COLUMN ` + HistoryTable + `.script IS 'Name of the migration script file';
COMMENT ON COLUMN ` + HistoryTable + `.checksum IS 'Checksum of the migration script content to detect changes. Null for repeatable if not validated';
COMMENT ON COLUMN ` + HistoryTable + `.installed_by IS 'Database user who applied the migration';
COMMENT ON COLUMN ` + HistoryTable + `.installed_on IS 'Timestamp when the migration was applied. Defaults to current time';
COMMENT ON COLUMN ` + HistoryTable + `.execution_time IS 'Execution time of the migration in milliseconds';
COMMENT ON COLUMN ` + HistoryTable + `.success IS 'Whether the migration was successful (true) or failed (false)';
`
