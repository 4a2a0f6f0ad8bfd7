package prepare

import (
	"fmt"
	"os"
	"path/filepath"
)

// WritePlatformEnv copies the base env file into the platform group's compose
// directory. The platform compose files read their variables from a sibling
// .env, so both groups see the same configuration.
func WritePlatformEnv(envPath, platformDir string) error {
	raw, err := os.ReadFile(envPath)
	if err != nil {
		return fmt.Errorf("read env file %q: %w", envPath, err)
	}

	target := filepath.Join(platformDir, ".env")
	if err := os.WriteFile(target, raw, 0o600); err != nil {
		return fmt.Errorf("write platform env %q: %w", target, err)
	}
	return nil
}
