package pgmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCreatesInitialMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	path, err := Setup(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "V0.1.0__init.sql"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestNewFileBumpsPatchOfHighestVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "V1.0.5__a.sql"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "V1.1.0__b.sql"), []byte("B"), 0o644))

	path, err := NewFile(dir, "", "add users", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "V1.1.1__add_users.sql"), path)
}

func TestNewFileStartsAtZeroOneZeroWhenEmpty(t *testing.T) {
	dir := t.TempDir()

	path, err := NewFile(dir, "", "init", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "V0.1.0__init.sql"), path)
}

func TestNewFileRejectsInvalidVersionOverride(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFile(dir, "not-a-version", "x", nil)
	require.Error(t, err)
}
