package prepare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupDatabaseDirMovesDataAside(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "pg_version"), []byte("15"), 0o644))

	backup, err := BackupDatabaseDir(dataDir)
	require.NoError(t, err)

	_, err = os.Stat(dataDir)
	assert.True(t, os.IsNotExist(err), "original directory must be gone")

	// Data survives the move.
	raw, err := os.ReadFile(filepath.Join(backup, "pg_version"))
	require.NoError(t, err)
	assert.Equal(t, "15", string(raw))
}

func TestBackupDatabaseDirMissing(t *testing.T) {
	_, err := BackupDatabaseDir(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
