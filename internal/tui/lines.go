package tui

import (
	"bytes"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// LineWriter splits written bytes into lines and sends each one as an
// OutputMsg. It is safe for concurrent use; call Flush once writing stops to
// emit a trailing partial line.
type LineWriter struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	stderr bool
	buf    bytes.Buffer
}

// NewLineWriter returns a writer that sends lines through send.
func NewLineWriter(send func(tea.Msg), stderr bool) *LineWriter {
	return &LineWriter{send: send, stderr: stderr}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := string(w.buf.Next(idx + 1))
		w.emit(line)
	}
	return len(p), nil
}

// Flush sends any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	w.send(OutputMsg{Line: line, Stderr: w.stderr})
}
