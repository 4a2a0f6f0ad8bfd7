package prepare

import (
	"fmt"
	"os"
	"time"
)

// BackupDatabaseDir moves the platform database data directory aside to a
// timestamped backup path so the database reinitializes on the next startup.
// The data is moved, never deleted. Returns the backup path.
func BackupDatabaseDir(dataDir string) (string, error) {
	if _, err := os.Stat(dataDir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("database data directory %q does not exist", dataDir)
		}
		return "", fmt.Errorf("stat %q: %w", dataDir, err)
	}

	backup := fmt.Sprintf("%s.backup.%d", dataDir, time.Now().Unix())
	if err := os.Rename(dataDir, backup); err != nil {
		return "", fmt.Errorf("move %q to %q: %w", dataDir, backup, err)
	}
	return backup, nil
}
