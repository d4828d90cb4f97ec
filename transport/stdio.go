package transport

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
)

// Stdio implements a line transport over stdin/stdout, one JSON object
// per line. Reads are delivered through an internal goroutine so that a
// blocked scanner does not prevent Read from honoring its context.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	mu sync.Mutex

	readOnce sync.Once
	lines    chan string
	readErr  chan error
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.errOut = w
	}
}

// NewStdio creates a new stdio transport.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		lines:   make(chan string),
		readErr: make(chan error, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Read returns the next line from stdin, blocking until one is available.
// It returns io.EOF when the input stream is exhausted.
func (s *Stdio) Read(ctx context.Context) (string, error) {
	s.readOnce.Do(func() {
		go s.scan()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-s.readErr:
		return "", err
	case line, ok := <-s.lines:
		if !ok {
			// A scanner failure closes the channel too; report the
			// underlying error rather than a bare EOF when one exists.
			select {
			case err := <-s.readErr:
				return "", err
			default:
				return "", io.EOF
			}
		}
		return line, nil
	}
}

// Write writes one line to stdout, appending the newline delimiter.
func (s *Stdio) Write(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.out, line); err != nil {
		return err
	}
	_, err := s.out.Write([]byte("\n"))
	return err
}

func (s *Stdio) scan() {
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		s.readErr <- err
	}
	close(s.lines)
}
