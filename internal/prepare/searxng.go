package prepare

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	searchSettingsFile = "settings.yml"
	searchBaseFile     = "settings-base.yml"

	// searchKeyPlaceholder is the placeholder the upstream base settings ship
	// for the search engine's secret key.
	searchKeyPlaceholder = "ultrasecretkey"
)

// EnsureSearchSettings materializes the metasearch engine's settings file
// from its base template when absent and substitutes the placeholder secret
// key with a generated one. Idempotent: a settings file with a real key is
// left untouched.
func EnsureSearchSettings(dir string, logger *slog.Logger) error {
	basePath := filepath.Join(dir, searchBaseFile)
	settingsPath := filepath.Join(dir, searchSettingsFile)

	if _, err := os.Stat(settingsPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("stat %q: %w", settingsPath, err)
		}
		base, err := os.ReadFile(basePath)
		if err != nil {
			return fmt.Errorf("read search base settings %q: %w", basePath, err)
		}
		if err := os.WriteFile(settingsPath, base, 0o644); err != nil {
			return fmt.Errorf("create search settings %q: %w", settingsPath, err)
		}
		if logger != nil {
			logger.Info("created search settings from base template", "path", settingsPath)
		}
	}

	raw, err := os.ReadFile(settingsPath)
	if err != nil {
		return fmt.Errorf("read search settings %q: %w", settingsPath, err)
	}
	content := string(raw)

	if !strings.Contains(content, searchKeyPlaceholder) {
		return nil
	}

	key, err := randomHex(32)
	if err != nil {
		return fmt.Errorf("generate search secret key: %w", err)
	}
	content = strings.ReplaceAll(content, searchKeyPlaceholder, key)

	if err := os.WriteFile(settingsPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write search settings %q: %w", settingsPath, err)
	}
	if logger != nil {
		logger.Info("generated search engine secret key", "path", settingsPath)
	}
	return nil
}
