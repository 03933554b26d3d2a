package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"
)

const timestampLayout = "2006-01-02 15:04:05"

// stamp formats the bracketed prefix used by job log lines
func stamp(t time.Time) string {
	return "[" + t.Format(timestampLayout) + "]"
}

// LogFile is an append-only job log. A failed write is reported on the
// process logger and otherwise ignored.
type LogFile struct {
	path string
	mu   sync.Mutex
}

func NewLogFile(path string) *LogFile {
	return &LogFile{path: path}
}

func (l *LogFile) Path() string { return l.path }

// Append writes each line followed by a newline
func (l *LogFile) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	if err := l.write(lines); err != nil {
		zlog.Warn().Err(err).Str("path", l.path).Msg("job log not writable, falling back to console")
		for _, line := range lines {
			zlog.Info().Str("path", l.path).Msg(line)
		}
	}
}

func (l *LogFile) write(lines []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
