package ant

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
)

// output accumulates one stream. Reads of the snapshot may happen while the
// drain goroutine is still writing after an abandoned termination.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}

// bestEffort forwards to w but never reports failure, so a broken live view
// cannot stop the pipe from being drained.
type bestEffort struct {
	w io.Writer
}

func (b bestEffort) Write(p []byte) (int, error) {
	_, _ = b.w.Write(p)
	return len(p), nil
}

// drain copies r into dst (and tee, if set) until EOF or the pipe is closed.
func drain(dst *output, tee io.Writer, r io.Reader) error {
	w := io.Writer(dst)
	if tee != nil {
		w = io.MultiWriter(dst, bestEffort{tee})
	}
	_, err := io.Copy(w, r)
	if err == nil || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}
