package multi

import "novatail/internal/application/port"

// Sink fans a batch out to several sinks; the first error wins but every
// sink still sees the batch.
type Sink struct {
	sinks []port.Sink
}

func New(sinks ...port.Sink) *Sink {
	out := make([]port.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Sink{sinks: out}
}

func (s *Sink) WriteLines(lines []string) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.WriteLines(lines); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Sink) Flush() error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Sink = (*Sink)(nil)
