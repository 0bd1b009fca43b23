package pgmt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2025, 5, 17, 21, 2, 39, 0, time.UTC)
}

type nullIO struct{}

func (nullIO) Infof(string, ...interface{}) (int, error)  { return 0, nil }
func (nullIO) Debugf(string, ...interface{}) (int, error) { return 0, nil }

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMigrateAppliesOnlyForwardMigrationsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V1.1.0__add_name.sql", "ALTER TABLE table_1 ADD COLUMN name TEXT;")
	writeScript(t, dir, "V1.0.0__create_table_1.sql", "CREATE TABLE table_1 (id INT);")
	writeScript(t, dir, "U1.0.0__drop_table_1.sql", "DROP TABLE table_1;")
	writeScript(t, dir, "R__seed.sql", "INSERT INTO table_1 VALUES (1);")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT installed_rank").
		WillReturnRows(sqlmock.NewRows([]string{
			"installed_rank", "version", "description", "type", "script",
			"checksum", "installed_by", "installed_on", "execution_time", "success",
		}))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO _schema_history").
		WillReturnRows(sqlmock.NewRows([]string{"installed_rank"}).AddRow(int64(1)))
	mock.ExpectExec("CREATE TABLE table_1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO _schema_history").
		WillReturnRows(sqlmock.NewRows([]string{"installed_rank"}).AddRow(int64(2)))
	mock.ExpectExec("ALTER TABLE table_1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = Migrate(context.Background(), nullIO{}, db, []string{dir}, Placeholders{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackAndAbortsOnScriptFailure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V1.0.0__x.sql", "CREATE TABLE users(id INT); CREATE TABLE users(id INT);")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT installed_rank").
		WillReturnRows(sqlmock.NewRows([]string{
			"installed_rank", "version", "description", "type", "script",
			"checksum", "installed_by", "installed_on", "execution_time", "success",
		}))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO _schema_history").
		WillReturnRows(sqlmock.NewRows([]string{"installed_rank"}).AddRow(int64(1)))
	mock.ExpectExec("CREATE TABLE users").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = Migrate(context.Background(), nullIO{}, db, []string{dir}, Placeholders{})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateSurfacesChecksumMismatchBeforeApplying(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V1.0.0__m.sql", "B")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	staleChecksum := Checksum("A")

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT installed_rank").
		WillReturnRows(sqlmock.NewRows([]string{
			"installed_rank", "version", "description", "type", "script",
			"checksum", "installed_by", "installed_on", "execution_time", "success",
		}).AddRow(int64(1), "1.0.0", "m.sql", "V", "V1.0.0__m.sql", staleChecksum, "installed_by", fixedTime(), int32(0), true))

	err = Migrate(context.Background(), nullIO{}, db, []string{dir}, Placeholders{})
	require.Error(t, err)

	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "V1.0.0__m.sql", mismatch.FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFailsClosedOnMissingPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V1.0.0__m.sql", "SELECT ${who};")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT installed_rank").
		WillReturnRows(sqlmock.NewRows([]string{
			"installed_rank", "version", "description", "type", "script",
			"checksum", "installed_by", "installed_on", "execution_time", "success",
		}))

	err = Migrate(context.Background(), nullIO{}, db, []string{dir}, Placeholders{})
	require.Error(t, err)

	var missing *MissingPlaceholderError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "who", missing.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
