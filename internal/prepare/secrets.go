// Package prepare contains the one-time bootstrap steps that run before the
// first launch: generating secrets over shipped placeholders, materializing
// the search engine settings and propagating the env file to the platform
// group. These steps mutate files on purpose; the resolver never does.
package prepare

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/local-ai-stack/stackctl/internal/config"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecrets rewrites placeholder values in the env file at path with
// freshly generated secrets. Variables already holding real values are left
// untouched, so repeated invocation is a no-op. Returns the number of
// variables replaced.
func GenerateSecrets(path string, logger *slog.Logger) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read env file %q: %w", path, err)
	}
	content := string(raw)

	replaced := 0
	for key, placeholder := range config.PlaceholderSecrets {
		line := key + "=" + placeholder.Value
		if !strings.Contains(content, line) {
			continue
		}

		secret, err := generate(placeholder.Class, placeholder.Length)
		if err != nil {
			return replaced, fmt.Errorf("generate secret for %s: %w", key, err)
		}
		content = strings.ReplaceAll(content, line, key+"="+secret)
		replaced++
		if logger != nil {
			logger.Info("generated secret", "key", key)
		}
	}

	if replaced == 0 {
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return replaced, fmt.Errorf("stat env file %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return replaced, fmt.Errorf("write env file %q: %w", path, err)
	}
	return replaced, nil
}

// generate produces a secret of the given class and entropy length.
func generate(class config.SecretClass, length int) (string, error) {
	switch class {
	case config.SecretAlphanumeric:
		return randomAlphanumeric(length)
	default:
		return randomHex(length)
	}
}

// randomHex returns n random bytes hex-encoded (2n characters).
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// randomAlphanumeric returns an n-character secret drawn from letters and
// digits only, for values interpolated into connection-string grammars.
func randomAlphanumeric(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
