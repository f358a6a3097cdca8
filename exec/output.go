package exec

import (
	"bytes"
	"io"
	"sync"
)

// multiWriter fans each write out to all writers under a single lock, so
// the stdout and stderr copy goroutines never interleave inside one write.
type multiWriter struct {
	writers []io.Writer
	mu      sync.Mutex
}

func newMultiWriter(writers ...io.Writer) *multiWriter {
	return &multiWriter{writers: writers}
}

// Write writes p to every writer in order and stops at the first failure.
func (mw *multiWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	for _, w := range mw.writers {
		n, err := w.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

// capture buffers everything written to it and optionally forwards it to a
// passthrough writer.
type capture struct {
	buffer      bytes.Buffer
	passthrough io.Writer
	mu          sync.Mutex
}

func newCapture(passthrough io.Writer) *capture {
	return &capture{passthrough: passthrough}
}

// Write implements io.Writer. Passthrough errors are ignored so that a
// broken terminal never loses captured output.
func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.passthrough != nil {
		_, _ = c.passthrough.Write(p)
	}
	return c.buffer.Write(p)
}

// String returns the captured output.
func (c *capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.String()
}
