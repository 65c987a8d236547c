// Package testutil provides logging helpers for package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// CaptureLogger records log output so tests can assert on emitted lines.
type CaptureLogger struct {
	*slog.Logger
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureLogger returns a debug-level text logger backed by a buffer.
func NewCaptureLogger() *CaptureLogger {
	c := &CaptureLogger{}
	c.Logger = slog.New(slog.NewTextHandler(lockedWriter{c}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return c
}

// String returns everything logged so far.
func (c *CaptureLogger) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines returns the logged lines that contain every given substring.
func (c *CaptureLogger) Lines(substrs ...string) []string {
	var out []string
	for _, line := range strings.Split(c.String(), "\n") {
		if line == "" {
			continue
		}
		keep := true
		for _, s := range substrs {
			if !strings.Contains(line, s) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

type lockedWriter struct {
	c *CaptureLogger
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.buf.Write(p)
}
