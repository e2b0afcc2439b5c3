// Package log builds the slog logger shared by the interpreter components.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// LevelTrace sits below slog's debug level.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog level. The second result is false
// for "none", which disables logging.
func ParseLevel(s string) (slog.Level, bool, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, true, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	case "none", "":
		return slog.LevelError, false, nil
	}
	return slog.LevelError, false, fmt.Errorf("unknown log level %q", s)
}

// New returns a JSON logger writing to logFile, or to stderr when logFile is
// empty. The returned closer releases the log file and is never nil.
func New(level, logFile string) (*slog.Logger, io.Closer, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if !enabled {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if logFile != "" {
		f, err := openLogFile(logFile)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
	}

	return NewWithWriter(out, lvl), closer, nil
}

func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// logFile reopens its path on SIGHUP so an external rotation
// (mv darix.log darix.bak && kill -HUP <pid>) starts a fresh file.
type logFile struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	sigs chan os.Signal
}

func openLogFile(path string) (*logFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	lf := &logFile{path: path, fh: fh, sigs: make(chan os.Signal, 1)}
	signal.Notify(lf.sigs, syscall.SIGHUP)
	go func() {
		for range lf.sigs {
			lf.reopen()
		}
	}()
	return lf, nil
}

func (lf *logFile) Write(p []byte) (int, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.fh == nil {
		return 0, os.ErrClosed
	}
	return lf.fh.Write(p)
}

func (lf *logFile) reopen() {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.fh == nil {
		return
	}
	fh, err := os.OpenFile(lf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
		return
	}
	_ = lf.fh.Close()
	lf.fh = fh
}

func (lf *logFile) Close() error {
	signal.Stop(lf.sigs)
	close(lf.sigs)

	lf.mu.Lock()
	defer lf.mu.Unlock()
	if lf.fh == nil {
		return nil
	}
	err := lf.fh.Close()
	lf.fh = nil
	return err
}
