//go:build !windows

package stderr

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCapture_LogsAndDeliversLines(t *testing.T) {
	var logBuf syncBuffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))

	c, err := Start(log)
	if err != nil {
		t.Skipf("cannot redirect stderr: %v", err)
	}

	_, _ = os.Stderr.WriteString("ALSA lib pcm.c: underrun occurred\n\n")

	select {
	case line := <-c.Lines():
		if line != "ALSA lib pcm.c: underrun occurred" {
			t.Errorf("line = %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no line captured")
	}
	c.Stop()

	if !strings.Contains(logBuf.String(), "underrun occurred") {
		t.Errorf("log = %q, want captured line", logBuf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
