package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer that forwards container runtime command output to
// slog, one line per record.
type Writer struct {
	logger *slog.Logger
	source string
}

// NewWriter constructs a Writer bound to the provided logger. The source tag
// identifies which subprocess produced the output.
func NewWriter(logger *slog.Logger, source string) *Writer {
	return &Writer{logger: logger, source: source}
}

// Write logs the given bytes at info level, splitting on newlines.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line != "" {
				w.logger.Info("runtime output", "source", w.source, "line", line)
			}
		}
	}
	return len(p), nil
}
