package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// LineLimiter wraps a log file and keeps it from growing past a fixed number
// of lines. Once twice the limit has been written, the file is rewritten with
// only the most recent lines.
type LineLimiter struct {
	mu       sync.Mutex
	writer   io.Writer
	path     string
	limit    int
	lines    [][]byte // ring of the most recent lines
	next     int
	filled   bool
	sinceCut int
}

// NewLineLimiter creates a limiter for the file at path. A non-positive limit
// disables truncation.
func NewLineLimiter(writer io.Writer, limit int, path string) *LineLimiter {
	l := &LineLimiter{
		writer: writer,
		path:   path,
		limit:  limit,
	}
	if limit > 0 {
		l.lines = make([][]byte, limit)
	}
	return l
}

// Write implements io.Writer.
func (l *LineLimiter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.writer.Write(p)
	if err != nil || l.limit <= 0 {
		return n, err
	}

	for line := range bytes.SplitSeq(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		l.remember(line)

		if l.sinceCut >= 2*l.limit {
			if err := l.truncate(); err != nil {
				return n, fmt.Errorf("failed to truncate log file: %w", err)
			}
			l.sinceCut = l.limit
		}
	}

	return n, nil
}

func (l *LineLimiter) remember(line []byte) {
	l.lines[l.next] = append(l.lines[l.next][:0], line...)
	l.next = (l.next + 1) % l.limit
	if l.next == 0 {
		l.filled = true
	}
	l.sinceCut++
}

// recent returns the retained lines, oldest first.
func (l *LineLimiter) recent() [][]byte {
	if !l.filled {
		return l.lines[:l.next]
	}
	return append(append([][]byte{}, l.lines[l.next:]...), l.lines[:l.next]...)
}

// truncate replaces the file with the retained lines and reopens it.
func (l *LineLimiter) truncate() error {
	temp, err := os.CreateTemp(filepath.Dir(l.path), "log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	var buf bytes.Buffer
	for _, line := range l.recent() {
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if _, err := temp.Write(buf.Bytes()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if closer, ok := l.writer.(io.Closer); ok {
		closer.Close()
	}

	if err := os.Rename(tempPath, l.path); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	l.writer = file

	return nil
}
