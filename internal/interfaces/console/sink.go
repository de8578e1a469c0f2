package console

import (
	"bufio"
	"io"
	"os"

	"novatail/internal/application/port"
)

// Sink writes captured console lines to a buffered stream, normally
// stdout. Flush is called once per poll that produced output so log
// collectors see lines promptly.
type Sink struct {
	w *bufio.Writer
}

func NewSink() *Sink { return NewSinkTo(os.Stdout) }

func NewSinkTo(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

func (s *Sink) WriteLines(lines []string) error {
	for _, line := range lines {
		if _, err := s.w.WriteString(line); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) Flush() error { return s.w.Flush() }

var _ port.Sink = (*Sink)(nil)
