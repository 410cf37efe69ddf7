package service

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"postbrowser/app/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (DB, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	return DB{
		Path:      filepath.Join(dir, "badger"),
		BackupDir: filepath.Join(dir, "backups"),
		Out:       out,
		In:        strings.NewReader(""),
	}, out
}

func countUsers(t *testing.T, path string) int {
	t.Helper()
	db, err := store.Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	users, err := store.NewBadgerUserStore(db).List()
	require.NoError(t, err)
	return len(users)
}

func TestInit(t *testing.T) {
	d, out := setupTestDB(t)

	require.NoError(t, d.Init())
	assert.Contains(t, out.String(), "Database initialized successfully")

	err := d.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestClean(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		d, out := setupTestDB(t)
		require.NoError(t, d.Clean())
		assert.Contains(t, out.String(), "already clean")
	})

	tests := []struct {
		name    string
		input   string
		yes     bool
		wantErr error
	}{
		{"confirmed", "y\n", false, nil},
		{"declined", "n\n", false, ErrCancelled},
		{"no answer", "", false, ErrCancelled},
		{"yes flag", "", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := setupTestDB(t)
			require.NoError(t, d.Init())
			d.In = strings.NewReader(tt.input)
			d.Yes = tt.yes

			err := d.Clean()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantErr != nil, d.exists())
		})
	}
}

func TestSeed(t *testing.T) {
	d, out := setupTestDB(t)

	require.NoError(t, d.Seed(""))
	assert.Contains(t, out.String(), "Seeded 4 users")
	assert.Equal(t, 4, countUsers(t, d.Path))

	assert.ErrorIs(t, d.Seed(""), store.ErrAlreadySeeded)
	assert.Error(t, d.Seed(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestBackupRestore(t *testing.T) {
	d, out := setupTestDB(t)

	_, err := d.Backup()
	require.Error(t, err, "nothing to back up yet")

	require.NoError(t, d.Seed(""))
	backupFile, err := d.Backup()
	require.NoError(t, err)
	assert.Contains(t, out.String(), backupFile)

	d.Yes = true
	require.NoError(t, d.Clean())
	require.NoError(t, d.Restore(backupFile))
	assert.Equal(t, 4, countUsers(t, d.Path))

	d.Yes = false
	d.In = strings.NewReader("n\n")
	assert.ErrorIs(t, d.Restore(backupFile), ErrCancelled)

	assert.Error(t, d.Restore(filepath.Join(t.TempDir(), "nope.db")))
}
