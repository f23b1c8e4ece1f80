//go:build !windows

// Package stderr captures output that C code (ALSA, the AAC decoder) writes
// straight to file descriptor 2, so it cannot corrupt the TUI. Captured
// lines are logged and offered to the UI.
package stderr

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
)

// Capture redirects fd 2 into a pipe until Stop is called.
type Capture struct {
	lines     chan string
	orig      int
	pipeRead  *os.File
	pipeWrite *os.File
}

// Start begins capturing stderr. It must run before audio initialization.
// On error the program can continue with stderr untouched.
func Start(log *slog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		lines:     make(chan string, 100),
		orig:      orig,
		pipeRead:  r,
		pipeWrite: w,
	}
	go c.drain(r, log)
	return c, nil
}

func (c *Capture) drain(r io.Reader, log *slog.Logger) {
	defer close(c.lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if log != nil {
			log.Warn("native stderr", "line", line)
		}
		select {
		case c.lines <- line:
		default:
			// nobody is reading; the log still has it
		}
	}
}

// Lines delivers captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// WriteOriginal writes to the real stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.pipeWrite.Close()
	c.pipeRead.Close()
}
